package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF concatenates the plain text of every page and splits it into
// paragraphs on blank lines.
func extractPDF(data []byte) ([]string, error) {
	rdr, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	plain, err := rdr.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return nil, fmt.Errorf("failed to read pdf buffer: %w", err)
	}

	return nonEmptyTrimmed(strings.Split(buf.String(), "\n\n")), nil
}
