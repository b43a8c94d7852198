package notepress

import "embed"

// EmbeddedAssets contains static assets shipped with the engine,
// currently just the analytics beacon script.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
