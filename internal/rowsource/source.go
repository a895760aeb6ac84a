// =============================================================================
// Timetable - Row Source
// =============================================================================
//
// A row source yields the raw rows of the course export as string cells. The
// core does not care where they came from; this package hides the two formats
// the export is published in:
//   - CSV (comma by default, ragged rows, lazy quotes, tolerant decoding)
//   - XLSX (first sheet unless a sheet is named)
//
// Rows are returned exactly as read. Filtering of header, title and blank
// rows is the catalogue builder's job.
//
// =============================================================================

package rowsource

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by Open for an unknown file extension.
var ErrUnsupportedFormat = errors.New("unsupported row source format")

// Source yields the raw rows of a tabular export.
type Source interface {
	// Rows reads every row. It fails only when the source cannot be read at
	// all; malformed cells are returned as they are.
	Rows(ctx context.Context) ([][]string, error)

	// Name identifies the source in logs.
	Name() string
}

// Options configures Open.
type Options struct {
	// Delimiter is the CSV field separator. Accepts a single character or
	// one of "tab", "pipe", "semicolon". Empty means comma.
	Delimiter string

	// Sheet is the XLSX sheet to read. Empty means the first sheet.
	Sheet string
}

// Open returns the Source for path, chosen by file extension.
//
// PARAMETERS:
//   - path: The export file.
//   - opts: Format specific settings.
//
// RETURNS:
//   - The Source. The file itself is opened lazily by Rows.
//   - ErrUnsupportedFormat (wrapped) for an unknown extension.
func Open(path string, opts Options) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return NewCSV(path, opts.Delimiter), nil
	case ".xlsx", ".xlsm":
		return NewXLSX(path, opts.Sheet), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}
