package rowsource

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSV reads rows from a delimited text export.
type CSV struct {
	path      string
	delimiter string
}

// NewCSV returns a CSV source for path.
func NewCSV(path, delimiter string) *CSV {
	return &CSV{path: path, delimiter: delimiter}
}

// Name returns the file path.
func (c *CSV) Name() string { return c.path }

// Rows reads every record of the file.
func (c *CSV) Rows(ctx context.Context) ([][]string, error) {
	file, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	rows, err := ReadCSV(ctx, file, c.delimiter)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.path, err)
	}
	return rows, nil
}

// ReadCSV reads delimited records from r.
//
// The input is decoded as UTF-8 with a leading byte order mark removed and
// invalid byte sequences replaced by U+FFFD, so a badly encoded cell never
// aborts the read. Rows may have any number of fields.
//
// PARAMETERS:
//   - ctx: Checked between records.
//   - r: The raw file contents.
//   - delimiter: See Options.Delimiter.
//
// RETURNS:
//   - The rows in file order.
//   - An error if the stream is not readable as CSV.
func ReadCSV(ctx context.Context, r io.Reader, delimiter string) ([][]string, error) {
	decoded := transform.NewReader(bufio.NewReader(r), unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	configureReader(reader, delimiter)

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// configureReader applies the delimiter and the tolerant parsing settings.
func configureReader(reader *csv.Reader, delimiter string) {
	switch delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(delimiter) > 0 {
			reader.Comma = rune(delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// The export's column count drifts from row to row.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false
}
