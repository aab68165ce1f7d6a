package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jaspreetjk20/docrank/internal/document"
)

// Loader converts raw document bytes into pages of positioned text runs.
type Loader interface {
	Load(r io.Reader, filename string) (*document.Document, error)
}

// SupportedExtensions lists file extensions the pipeline can ingest.
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".md":   true,
	".txt":  true,
	".html": true,
	".htm":  true,
	".docx": true,
}

// ForFile returns the appropriate loader for a filename.
func ForFile(filename string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFLoader{}, nil
	case ".md", ".markdown":
		return &MarkdownLoader{}, nil
	case ".txt":
		return &TextLoader{}, nil
	case ".html", ".htm":
		return &HTMLLoader{}, nil
	case ".docx":
		return &DOCXLoader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// docID strips the extension from a filename to form the source identifier.
func docID(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}
