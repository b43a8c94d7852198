// Package views provides the ready-made templ components for a notepress
// site: layout, landing page, archive, note pages, admin screens, and error
// pages. Components are hand-written templ.ComponentFunc values, so the
// module builds without a template generation step; sites wanting their own
// look supply a different ViewFuncs set to the engine.
package views

import "github.com/hkan/notepress"

// Funcs returns the engine view bindings for the built-in components.
func Funcs() notepress.ViewFuncs {
	return notepress.ViewFuncs{
		Home:             Home,
		HomePartial:      HomePartial,
		Archive:          Archive,
		ArchiveSection:   ArchiveSection,
		Note:             Note,
		NotePartial:      NotePartial,
		AdminLogin:       AdminLogin,
		AdminDashboard:   AdminDashboard,
		AdminFormPartial: AdminFormPartial,
		AdminImages:      AdminImages,
		NotFound:         NotFound,
		ServerError:      ServerError,
	}
}
