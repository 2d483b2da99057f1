package csvfile

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Inventory is the raw, unnormalized content of an inventory file:
// the header in original order plus one cell map per row. Type
// coercion and derived columns are the engine's job.
type Inventory struct {
	Header []string
	Rows   []map[string]string
}

// Load reads a delimited inventory file. Source files arrive with each
// line wrapped in literal quotes, so every line is stripped of
// surrounding quotes and whitespace before CSV parsing.
func Load(path string) (*Inventory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory file: %w", err)
	}
	defer f.Close()

	inv, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return inv, nil
}

// Parse consumes quote-wrapped delimited text from r.
func Parse(r io.Reader) (*Inventory, error) {
	var cleaned []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.Trim(line, `"`)
		cleaned = append(cleaned, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(cleaned, "\n")))
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("inventory file is empty")
	}

	header := records[0]
	inv := &Inventory{Header: header, Rows: make([]map[string]string, 0, len(records)-1)}
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		inv.Rows = append(inv.Rows, row)
	}
	return inv, nil
}
