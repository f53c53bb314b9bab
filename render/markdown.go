package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Renderer turns bot replies into safe HTML: GFM tables and ~~strikethrough~~
// (double tilde only), raw HTML dropped, the result sanitized.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, doubleTildeStrikethrough{}),
	)
	return &Renderer{md: md, policy: bluemonday.UGCPolicy()}
}

func (renderer *Renderer) Markdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := renderer.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", errors.WithStack(err))
	}
	return template.HTML(renderer.policy.SanitizeBytes(buf.Bytes())), nil
}

// Text is for user messages, which are shown as typed.
func Text(source string) template.HTML {
	return template.HTML(template.HTMLEscapeString(source))
}

// doubleTildeStrikethrough is GFM strikethrough restricted to "~~" runs.
// A single "~" (or a longer run) stays literal text.
type doubleTildeStrikethrough struct{}

func (doubleTildeStrikethrough) Extend(md goldmark.Markdown) {
	md.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&doubleTildeParser{}, 500),
	))
	md.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(extension.NewStrikethroughHTMLRenderer(), 500),
	))
}

type doubleTildeParser struct{}

func (*doubleTildeParser) Trigger() []byte {
	return []byte{'~'}
}

func (*doubleTildeParser) Parse(_ gast.Node, block text.Reader, pc parser.Context) gast.Node {
	before := block.PrecendingCharacter()
	if before == '~' {
		return nil
	}
	line, segment := block.PeekLine()
	node := parser.ScanDelimiter(line, before, 2, tildeDelimiter{})
	if node == nil || node.OriginalLength != 2 {
		return nil
	}
	node.Segment = segment.WithStop(segment.Start + node.OriginalLength)
	block.Advance(node.OriginalLength)
	pc.PushDelimiter(node)
	return node
}

func (*doubleTildeParser) CloseBlock(gast.Node, parser.Context) {}

type tildeDelimiter struct{}

func (tildeDelimiter) IsDelimiter(b byte) bool {
	return b == '~'
}

func (tildeDelimiter) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

func (tildeDelimiter) OnMatch(int) gast.Node {
	return east.NewStrikethrough()
}
