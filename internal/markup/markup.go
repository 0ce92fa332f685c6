// Package markup converts between the HTML fragments the service exchanges
// and the plain text the sync engine works with.
package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StripHTML returns the text content of an HTML fragment. Entities are
// decoded, <br> becomes a newline and script/style bodies are dropped.
// Input without tags or entities comes back unchanged.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}

	var out strings.Builder
	skipDepth := 0
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a truncated tag; either way keep what was read.
			return out.String()
		case html.TextToken:
			if skipDepth == 0 {
				out.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Br:
				out.WriteByte('\n')
			case atom.Script, atom.Style:
				if tt == html.StartTagToken {
					skipDepth++
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Script, atom.Style:
				if skipDepth > 0 {
					skipDepth--
				}
			case atom.P, atom.Div:
				out.WriteByte('\n')
			}
		}
	}
}

// EscapeHTML renders plain text as safe markup for display surfaces.
func EscapeHTML(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
}
