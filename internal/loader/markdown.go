package loader

import (
	"bytes"
	"io"
	"strings"

	"github.com/jaspreetjk20/docrank/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownLoader handles Markdown files using goldmark. Heading nodes become
// bold runs with level-scaled synthetic sizes; everything else becomes body
// paragraphs.
type MarkdownLoader struct{}

func (l *MarkdownLoader) Load(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	root := md.Parser().Parse(reader)

	b := newRunBuilder()
	var title string

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			heading := strings.TrimSpace(string(node.Text(src)))
			if heading == "" {
				continue
			}
			if title == "" && node.Level == 1 {
				title = heading
			}
			b.Heading(node.Level, heading)
		default:
			if t := blockText(n, src); t != "" {
				b.Paragraph(t)
			}
		}
	}

	return &document.Document{
		ID:       docID(filename),
		Filename: filename,
		Title:    title,
		Pages:    b.Pages(),
	}, nil
}

// blockText gets the text content of a goldmark AST node.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
			buf.WriteByte('\n')
		}
	} else {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Value(src))
				if t.HardLineBreak() || t.SoftLineBreak() {
					buf.WriteByte('\n')
				}
			} else {
				buf.WriteString(blockText(c, src) + " ")
			}
		}
	}
	return strings.TrimSpace(strings.Join(strings.Fields(buf.String()), " "))
}
