// Package parser extracts text chunks from uploaded documents.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// DefaultTextWindow is the number of characters per chunk for plain text files.
const DefaultTextWindow = 500

// ExtractFunc turns the raw bytes of a document into text chunks.
type ExtractFunc func(data []byte) ([]string, error)

// Parser dispatches documents to an extractor by file extension.
type Parser struct {
	extractors map[string]ExtractFunc
}

// NewParser creates a Parser supporting .pdf, .docx, .csv and .txt files.
func NewParser() *Parser {
	return NewParserWithTextWindow(DefaultTextWindow)
}

// NewParserWithTextWindow creates a Parser that cuts .txt files into windows
// of the given number of characters.
func NewParserWithTextWindow(window int) *Parser {
	if window <= 0 {
		window = DefaultTextWindow
	}
	return &Parser{
		extractors: map[string]ExtractFunc{
			".pdf":  extractPDF,
			".docx": extractDOCX,
			".csv":  extractCSV,
			".txt": func(data []byte) ([]string, error) {
				return extractTXT(data, window)
			},
		},
	}
}

// Supported reports whether filename has an extension the parser handles.
func (p *Parser) Supported(filename string) bool {
	_, ok := p.extractors[extension(filename)]
	return ok
}

// Parse reads r fully and extracts its chunks. Unsupported extensions yield
// an empty slice and no error.
func (p *Parser) Parse(filename string, r io.Reader) ([]string, error) {
	extract, ok := p.extractors[extension(filename)]
	if !ok {
		return []string{}, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	chunks, err := extract(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	if chunks == nil {
		chunks = []string{}
	}
	return chunks, nil
}

func extension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// nonEmptyTrimmed trims every part and drops the blank ones.
func nonEmptyTrimmed(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
