package loader

import (
	"bufio"
	"io"
	"strings"

	"github.com/jaspreetjk20/docrank/internal/document"
)

// TextLoader handles plain text files. Plain text has no styling, so every
// paragraph becomes a uniform body run; heading inference is left to the
// segmenter's gap fallback.
type TextLoader struct{}

func (l *TextLoader) Load(r io.Reader, filename string) (*document.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(strings.TrimSpace(line))
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	b := newRunBuilder()
	for _, para := range paragraphs {
		b.Paragraph(para)
	}

	return &document.Document{
		ID:       docID(filename),
		Filename: filename,
		Pages:    b.Pages(),
	}, nil
}
