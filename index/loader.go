package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LoadDocument reads a corpus file into a Document. Supported formats:
// plain text, markdown, and PDF. The jurisdiction is caller-supplied; file
// formats carry no reliable jurisdiction metadata.
func LoadDocument(path, jurisdiction string) (Document, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	var text string
	var err error
	switch ext {
	case "txt", "md", "markdown":
		text, err = loadPlainText(path)
	case "pdf":
		text, err = loadPDF(path)
	default:
		return Document{}, fmt.Errorf("loading %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Document{}, fmt.Errorf("loading %s: no extractable text", path)
	}

	return Document{
		ID:           path,
		Title:        strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Jurisdiction: jurisdiction,
		Format:       ext,
		Text:         text,
	}, nil
}

func loadPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// loadPDF extracts the plain text of every page, skipping pages whose
// extraction fails; scanned pages without a text layer yield nothing and
// the document-level empty check catches them.
func loadPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
