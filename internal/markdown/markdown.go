package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Every bundled goldmark extension is enabled, plus {#id .class} heading
// attributes. Raw HTML is passed through untouched because the output
// always goes through the sanitizer next.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
		extension.DefinitionList,
		extension.Typographer,
		extension.CJK,
	),
	goldmark.WithParserOptions(parser.WithAttribute()),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Render converts Markdown to HTML. It never fails: if goldmark reports an
// error the partial output is returned, or the source itself when nothing
// was written.
func Render(src string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil && buf.Len() == 0 {
		return src
	}
	return buf.String()
}
