// =============================================================================
// Timetable - Text Source
// =============================================================================
//
// The room allotment chart is published as a PDF. This package turns it into
// ordered plain-text lines, page by page, for the venue scanner.
//
// Two extraction modes are supported:
//   - rows:  text runs are grouped by baseline and ordered left to right,
//            so each grid row of the chart becomes one line
//   - plain: the page content stream as the PDF library renders it
//
// Every line is NFKC normalized so ligatures and full-width digits in the
// chart compare equal to their ASCII forms.
//
// =============================================================================

package textsource

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Mode selects how page text is extracted.
type Mode string

const (
	// ModeRows groups text by baseline. This is the default.
	ModeRows Mode = "rows"

	// ModePlain uses the library's plain text rendering.
	ModePlain Mode = "plain"
)

// ParseMode validates a configured mode name. Empty selects ModeRows.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeRows:
		return ModeRows, nil
	case ModePlain:
		return ModePlain, nil
	}
	return "", fmt.Errorf("unknown text mode %q (want %q or %q)", s, ModeRows, ModePlain)
}

// Source yields the ordered lines of a paginated document.
type Source interface {
	// Pages returns the lines of every page, in page order.
	Pages(ctx context.Context) ([][]string, error)
}

// PDF extracts lines from a PDF file.
type PDF struct {
	path   string
	mode   Mode
	logger *zap.Logger
}

// NewPDF returns a PDF source. A nil logger discards output.
func NewPDF(path string, mode Mode, logger *zap.Logger) *PDF {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mode == "" {
		mode = ModeRows
	}
	return &PDF{path: path, mode: mode, logger: logger}
}

// Pages reads every page. A page that fails to extract is logged and left
// empty; only an unreadable file is an error. The PDF library panics on some
// malformed files (broken xref tables, page trees, content streams); such a
// panic is returned as an error like any other unreadable file.
func (p *PDF) Pages(ctx context.Context) (pages [][]string, err error) {
	file, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	var reader *pdf.Reader
	var numPages int
	err = recoverPanic("malformed PDF", func() error {
		var openErr error
		reader, openErr = pdf.NewReader(file, info.Size())
		if openErr != nil {
			return openErr
		}
		numPages = reader.NumPage()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	pages = make([][]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var lines []string
		err := recoverPanic("malformed page", func() error {
			page := reader.Page(i)
			if page.V.IsNull() {
				return nil
			}
			var extractErr error
			lines, extractErr = p.extract(page)
			return extractErr
		})
		if err != nil {
			p.logger.Warn("failed to extract text from page",
				zap.String("file", p.path),
				zap.Int("page", i),
				zap.Error(err),
			)
			lines = nil
		}
		pages = append(pages, lines)
	}

	p.logger.Debug("extracted room chart text",
		zap.String("file", p.path),
		zap.Int("pages", numPages),
	)
	return pages, nil
}

// recoverPanic runs fn and turns a panic into an error prefixed with what.
func recoverPanic(what string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v", what, r)
		}
	}()
	return fn()
}

// extract returns the normalized lines of one page.
func (p *PDF) extract(page pdf.Page) ([]string, error) {
	if p.mode == ModePlain {
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		return SplitLines(text), nil
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, row := range rows {
		if line := NormalizeLine(JoinRow(row.Content)); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// gapFactor is the fraction of the font size beyond which the space between
// two runs is rendered as a blank.
const gapFactor = 0.25

// JoinRow concatenates the text runs of one baseline left to right, inserting
// a space wherever two runs are visibly apart.
func JoinRow(runs []pdf.Text) string {
	sorted := make([]pdf.Text, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var b strings.Builder
	for i, run := range sorted {
		if i > 0 {
			prev := sorted[i-1]
			gap := run.X - (prev.X + prev.W)
			if gap > gapFactor*prev.FontSize && !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(run.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(run.S)
	}
	return b.String()
}

// SplitLines splits text on newlines and normalizes each line, dropping blank
// ones.
func SplitLines(text string) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if line := NormalizeLine(raw); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// NormalizeLine applies NFKC and trims surrounding whitespace.
func NormalizeLine(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// Lines flattens pages into one ordered sequence.
func Lines(pages [][]string) []string {
	var out []string
	for _, page := range pages {
		out = append(out, page...)
	}
	return out
}
