package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// extractCSV consumes the header row and returns one chunk per data row,
// with the row's fields joined by a single space.
func extractCSV(data []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	// rows may be shorter or longer than the header
	r.FieldsPerRecord = -1

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("no columns to parse from file")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var rows []string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		rows = append(rows, strings.Join(record, " "))
	}

	return nonEmptyTrimmed(rows), nil
}
