package views

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/hkan/notepress"
)

// adminStyles is the self-contained stylesheet for admin screens. Admin
// pages are never part of the exported site, so they cannot rely on the
// site's Tailwind build and carry their own styles instead.
const adminStyles = `
:root { color-scheme: light dark; }
* { box-sizing: border-box; }
body { margin: 0; font: 15px/1.5 system-ui, sans-serif; background: #fafaf9; color: #1c1917; }
a { color: inherit; }
header.bar { display: flex; align-items: center; justify-content: space-between; gap: 1rem; padding: 1rem 1.5rem; border-bottom: 1px solid #e7e5e4; background: #fff; }
header.bar h1 { margin: 0; font-size: 1.1rem; }
header.bar nav { display: flex; align-items: center; gap: 1rem; }
main { max-width: 56rem; margin: 0 auto; padding: 1.5rem; }
.msg { padding: .6rem 1rem; margin-bottom: 1rem; border: 1px solid #a7f3d0; background: #ecfdf5; border-radius: 6px; }
.error { padding: .6rem 1rem; margin-bottom: 1rem; border: 1px solid #fecaca; background: #fef2f2; border-radius: 6px; }
form.editor { display: grid; gap: .75rem; margin-bottom: 2rem; }
form.editor label { display: grid; gap: .25rem; font-weight: 600; font-size: .85rem; }
form.editor input[type=text], form.editor input[type=date], form.editor textarea { font: inherit; padding: .5rem .6rem; border: 1px solid #d6d3d1; border-radius: 6px; background: #fff; }
form.editor textarea[name=content] { min-height: 18rem; font-family: ui-monospace, monospace; }
.row { display: flex; gap: .75rem; align-items: center; }
button, .btn { font: inherit; padding: .45rem .9rem; border: 1px solid #1c1917; border-radius: 6px; background: #1c1917; color: #fff; cursor: pointer; }
button.ghost, .btn.ghost { background: transparent; color: #1c1917; }
button.danger { border-color: #b91c1c; background: #b91c1c; }
table { width: 100%; border-collapse: collapse; }
th, td { text-align: left; padding: .5rem .6rem; border-bottom: 1px solid #e7e5e4; vertical-align: top; }
.badge { font-size: .7rem; text-transform: uppercase; letter-spacing: .08em; padding: .15rem .45rem; border: 1px solid #d6d3d1; border-radius: 999px; }
.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(180px, 1fr)); gap: 1rem; }
.card { border: 1px solid #e7e5e4; border-radius: 8px; background: #fff; padding: .75rem; }
.card img { width: 100%; height: auto; border-radius: 4px; }
.card code { display: block; margin: .5rem 0; font-size: .7rem; word-break: break-all; }
.login { max-width: 20rem; margin: 15vh auto 0; display: grid; gap: .75rem; }
.login input { font: inherit; padding: .5rem .6rem; border: 1px solid #d6d3d1; border-radius: 6px; width: 100%; }
@media (prefers-color-scheme: dark) {
  body { background: #171717; color: #fafaf9; }
  header.bar { background: #262626; border-color: #404040; }
  form.editor input[type=text], form.editor input[type=date], form.editor textarea, .login input { background: #262626; border-color: #525252; color: inherit; }
  th, td { border-color: #404040; }
  .card { background: #262626; border-color: #404040; }
  button.ghost, .btn.ghost { color: #fafaf9; border-color: #fafaf9; }
}
`

// adminPage wraps admin body markup in a standalone HTML shell.
func adminPage(title string, body func(buf *bytes.Buffer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		buf.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
		buf.WriteString(`<meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		buf.WriteString(`<meta name="robots" content="noindex"/>`)
		buf.WriteString(`<title>` + html.EscapeString(title) + `</title>`)
		buf.WriteString(`<style>` + adminStyles + `</style>`)
		buf.WriteString(`<script src="https://unpkg.com/htmx.org@1.9.12" defer></script>`)
		buf.WriteString(`</head><body>`)
		body(&buf)
		buf.WriteString(`</body></html>`)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// AdminLogin is the password prompt, with an error line after a failed try.
func AdminLogin(showError bool, csrfToken string) templ.Component {
	return adminPage("Sign in", func(buf *bytes.Buffer) {
		buf.WriteString(`<main class="login">`)
		buf.WriteString(`<h1>Admin</h1>`)
		if showError {
			buf.WriteString(`<p class="error">Wrong password, try again.</p>`)
		}
		buf.WriteString(`<form method="post" action="/admin/login/">`)
		buf.WriteString(`<input type="hidden" name="_csrf" value="` + html.EscapeString(csrfToken) + `"/>`)
		buf.WriteString(`<input type="password" name="password" placeholder="Password" autofocus required/>`)
		buf.WriteString(`<button type="submit">Sign in</button>`)
		buf.WriteString(`</form></main>`)
	})
}

// AdminDashboard lists every note (drafts included) with an inline editor.
func AdminDashboard(notes []notepress.Note, message string, csrfToken string) templ.Component {
	return adminPage("Notes admin", func(buf *bytes.Buffer) {
		writeAdminHeader(buf, csrfToken)
		buf.WriteString(`<main>`)
		if message != "" {
			buf.WriteString(`<p class="msg">` + html.EscapeString(message) + `</p>`)
		}
		buf.WriteString(`<section id="editor">`)
		writeAdminForm(buf, notepress.Note{}, csrfToken)
		buf.WriteString(`</section>`)

		buf.WriteString(`<section><table><thead><tr><th>Title</th><th>Date</th><th>Status</th><th></th></tr></thead><tbody>`)
		for _, n := range notes {
			buf.WriteString(`<tr><td>` + html.EscapeString(n.Title) + `</td>`)
			if n.Date.IsZero() {
				buf.WriteString(`<td>&mdash;</td>`)
			} else {
				buf.WriteString(`<td>` + n.Date.Format("2006-01-02") + `</td>`)
			}
			if n.Draft {
				buf.WriteString(`<td><span class="badge">draft</span></td>`)
			} else {
				buf.WriteString(`<td><span class="badge">published</span></td>`)
			}
			slug := notepress.PathEscape(n.Slug)
			buf.WriteString(`<td class="row">`)
			buf.WriteString(`<button class="ghost" hx-get="/admin/note/` + slug + `/" hx-target="#editor">Edit</button>`)
			buf.WriteString(`<button class="danger" hx-delete="/admin/note/` + slug + `/" hx-target="body" hx-confirm="Delete this note?" hx-headers='{"X-CSRF-Token":"` + html.EscapeString(csrfToken) + `"}'>Delete</button>`)
			buf.WriteString(`</td></tr>`)
		}
		buf.WriteString(`</tbody></table></section>`)
		buf.WriteString(`</main>`)
	})
}

func writeAdminHeader(buf *bytes.Buffer, csrfToken string) {
	buf.WriteString(`<header class="bar"><h1>notepress</h1><nav>`)
	buf.WriteString(`<a href="/admin/">Notes</a>`)
	buf.WriteString(`<a href="/admin/images/">Images</a>`)
	buf.WriteString(`<a href="/admin/analytics/">Analytics</a>`)
	buf.WriteString(`<a href="/" target="_blank" rel="noopener">View site</a>`)
	buf.WriteString(`<form method="post" action="/admin/logout/" style="margin:0">`)
	buf.WriteString(`<input type="hidden" name="_csrf" value="` + html.EscapeString(csrfToken) + `"/>`)
	buf.WriteString(`<button class="ghost" type="submit">Log out</button>`)
	buf.WriteString(`</form></nav></header>`)
}

// writeAdminForm renders the note editor. A zero-value note yields the
// blank "new note" form.
func writeAdminForm(buf *bytes.Buffer, n notepress.Note, csrfToken string) {
	buf.WriteString(`<form class="editor" method="post" action="/admin/save/">`)
	buf.WriteString(`<input type="hidden" name="_csrf" value="` + html.EscapeString(csrfToken) + `"/>`)
	buf.WriteString(`<label>Title<input type="text" name="title" value="` + html.EscapeString(n.Title) + `"/></label>`)
	buf.WriteString(`<div class="row">`)
	buf.WriteString(`<label>Slug<input type="text" name="slug" value="` + html.EscapeString(n.Slug) + `" placeholder="auto from title"/></label>`)
	dateVal := ""
	if !n.Date.IsZero() {
		dateVal = n.Date.Format("2006-01-02")
	}
	buf.WriteString(`<label>Date<input type="date" name="date" value="` + dateVal + `"/></label>`)
	buf.WriteString(`</div>`)
	buf.WriteString(`<label>Tags<input type="text" name="tags" value="` + html.EscapeString(notepress.JoinTags(n.Tags)) + `" placeholder="comma, separated"/></label>`)
	buf.WriteString(`<label>Summary<input type="text" name="summary" value="` + html.EscapeString(n.Summary) + `"/></label>`)
	buf.WriteString(`<label>Content<textarea name="content">` + html.EscapeString(n.Content) + `</textarea></label>`)
	buf.WriteString(`<div class="row">`)
	checked := ""
	if !n.Draft {
		checked = ` checked`
	}
	buf.WriteString(`<label class="row" style="font-weight:400"><input type="checkbox" name="published" value="1"` + checked + `/> Published</label>`)
	buf.WriteString(`<button type="submit">Save</button>`)
	buf.WriteString(`</div></form>`)
}

// AdminFormPartial is the editor alone, served to htmx edit requests.
func AdminFormPartial(n notepress.Note, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writeAdminForm(&buf, n, csrfToken)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// AdminImages is the upload manager for the static uploads directory.
func AdminImages(images []notepress.Image, csrfToken string) templ.Component {
	return adminPage("Images", func(buf *bytes.Buffer) {
		writeAdminHeader(buf, csrfToken)
		buf.WriteString(`<main>`)
		buf.WriteString(`<form class="editor" method="post" action="/admin/images/upload/" enctype="multipart/form-data">`)
		buf.WriteString(`<input type="hidden" name="_csrf" value="` + html.EscapeString(csrfToken) + `"/>`)
		buf.WriteString(`<div class="row"><input type="file" name="image" accept="image/*" required/>`)
		buf.WriteString(`<button type="submit">Upload</button></div>`)
		buf.WriteString(`</form>`)

		buf.WriteString(`<div class="grid">`)
		for _, img := range images {
			file := html.EscapeString(img.Filename)
			buf.WriteString(`<div class="card">`)
			buf.WriteString(`<img src="/public/uploads/` + file + `" alt="` + file + `" loading="lazy"/>`)
			buf.WriteString(fmt.Sprintf(`<div>%dx%d &middot; %d KB</div>`, img.Width, img.Height, img.Size/1024))
			buf.WriteString(`<code>![](/public/uploads/` + file + `)</code>`)
			buf.WriteString(`<button class="danger" hx-delete="/admin/images/` + notepress.PathEscape(img.Filename) + `/" hx-target="body" hx-confirm="Delete this image?" hx-headers='{"X-CSRF-Token":"` + html.EscapeString(csrfToken) + `"}'>Delete</button>`)
			buf.WriteString(`</div>`)
		}
		buf.WriteString(`</div>`)
		if len(images) == 0 {
			buf.WriteString(`<p>No uploads yet.</p>`)
		}
		buf.WriteString(`</main>`)
	})
}
