package views

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
)

func errorPage(code, title, hint string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		buf.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
		buf.WriteString(`<meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		buf.WriteString(`<meta name="robots" content="noindex"/>`)
		buf.WriteString(`<title>` + title + `</title>`)
		buf.WriteString(`<style>body{font:16px/1.6 system-ui,sans-serif;display:grid;place-items:center;min-height:100vh;margin:0;color:#1c1917;background:#fafaf9}main{text-align:center}h1{font-size:3rem;margin:0 0 .5rem}a{color:inherit}</style>`)
		buf.WriteString(`</head><body><main>`)
		buf.WriteString(`<h1>` + code + `</h1>`)
		buf.WriteString(`<p>` + hint + `</p>`)
		buf.WriteString(`<p><a href="/">Back to the front page</a></p>`)
		buf.WriteString(`</main></body></html>`)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// NotFound is the 404 page.
func NotFound() templ.Component {
	return errorPage("404", "Not found", "That page does not exist.")
}

// ServerError is the 500 page.
func ServerError() templ.Component {
	return errorPage("500", "Server error", "Something broke on our side. Try again in a bit.")
}
