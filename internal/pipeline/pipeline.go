// =============================================================================
// Timetable - Pipeline Module
// =============================================================================
//
// This module orchestrates the two stages that produce the course catalogue
// and ties them to the files named in the configuration.
//
// STAGES:
//   1. Build: read the tabular export and build one record per data row.
//   2. Venues: acquire the room chart, scan its text and merge the venues
//      into the records.
//
// COMMANDS:
//   - Build        stage 1 only; the catalogue is replaced wholesale
//   - SyncVenues   stage 2 against the catalogue already on disk
//   - Run          both stages; the chart is acquired and scanned while the
//                  export is being read
//
// A missing or unreadable room chart, or one that yields no venue at all,
// never fails a run. The venue stage is skipped and the catalogue keeps
// whatever venues it already had.
//
// =============================================================================

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/itxprashant/IITD-timetable-generator/internal/catalog"
	"github.com/itxprashant/IITD-timetable-generator/internal/catalogio"
	"github.com/itxprashant/IITD-timetable-generator/internal/config"
	"github.com/itxprashant/IITD-timetable-generator/internal/rowsource"
	"github.com/itxprashant/IITD-timetable-generator/internal/textsource"
	"github.com/itxprashant/IITD-timetable-generator/internal/types"
	"github.com/itxprashant/IITD-timetable-generator/internal/validation"
	"github.com/itxprashant/IITD-timetable-generator/internal/venue"
	"github.com/itxprashant/IITD-timetable-generator/internal/xmlwriter"
	"github.com/itxprashant/IITD-timetable-generator/pkg/utils"
)

// ErrNoVenues marks a chart that was read but yielded no course venue, such
// as a scanned image. It is handled like an unavailable chart.
var ErrNoVenues = errors.New("room chart yielded no course venues")

// Command names recorded in results and summaries.
const (
	CommandBuild  = "build"
	CommandVenues = "venues"
	CommandRun    = "run"
)

// =============================================================================
// RESULT STRUCTURES
// =============================================================================

// CatalogResult is the outcome of the build stage.
type CatalogResult struct {
	// Source names the tabular export that was read.
	Source string

	Records []types.CourseRecord
	Stats   catalog.Stats
}

// VenueResult is the outcome of the venue stage.
type VenueResult struct {
	// ChartFile is the room chart that was scanned.
	ChartFile string

	// Downloaded is true when the chart was fetched during this run.
	Downloaded bool

	// Skipped is non-empty when no venue could be taken from the chart. It
	// holds the reason.
	Skipped string

	Association venue.Association

	// Unresolved lists codes seen in the chart that never met a venue.
	Unresolved []string
}

// Result is the outcome of one command.
type Result struct {
	RunID   string
	Command string
	DryRun  bool

	Catalog *CatalogResult
	Venues  *VenueResult

	// Records is the catalogue as written (or as it would be written in a
	// dry run).
	Records []types.CourseRecord

	// VenuesChanged counts records whose venue text changed.
	VenuesChanged int

	// Written is false when the catalogue on disk was left untouched.
	Written     bool
	CatalogFile string
	BackupPath  string
	Exports     []string

	Validation  *validation.ValidationResult
	SummaryPath string

	StartTime time.Time
	EndTime   time.Time
}

// Summary converts the result into the run summary format.
func (r *Result) Summary() utils.RunSummary {
	s := utils.RunSummary{
		RunID:       r.RunID,
		Command:     r.Command,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		DryRun:      r.DryRun,
		CatalogFile: r.CatalogFile,
		BackupPath:  r.BackupPath,
		Exports:     r.Exports,
	}
	if r.Catalog != nil {
		s.CoursesFile = r.Catalog.Source
		s.RowsSeen = r.Catalog.Stats.RowsSeen
		s.RowsSkipped = r.Catalog.Stats.NotDataRows + r.Catalog.Stats.MissingCode
		s.RecordsBuilt = r.Catalog.Stats.RecordsBuilt
	}
	if r.Venues != nil {
		s.RoomChartFile = r.Venues.ChartFile
		s.ChartDownloaded = r.Venues.Downloaded
		s.ChartSkipped = r.Venues.Skipped
		s.CodesMapped = len(r.Venues.Association)
		s.Unresolved = len(r.Venues.Unresolved)
		s.VenuesChanged = r.VenuesChanged
	}
	if r.Validation != nil {
		s.Warnings = r.Validation.WarningCount
	}
	return s
}

// =============================================================================
// PIPELINE STRUCTURE
// =============================================================================

// Options adjusts a Pipeline.
type Options struct {
	// DryRun builds and scans but writes nothing.
	DryRun bool

	// Offline skips the chart download and uses the local copy only.
	Offline bool

	// Rows replaces the export named in the configuration.
	Rows rowsource.Source

	// Text replaces the room chart named in the configuration.
	Text textsource.Source
}

// Pipeline runs the catalogue commands for one configuration.
type Pipeline struct {
	cfg    *config.Config
	opts   Options
	logger *zap.Logger
	files  *utils.FileManager
	runID  string
}

// New creates a Pipeline. A nil logger discards output.
//
// PARAMETERS:
//   - cfg: The resolved configuration.
//   - logger: The logger; every entry carries the run id.
//   - opts: Dry run, offline mode and source overrides.
func New(cfg *config.Config, logger *zap.Logger, opts Options) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.New().String()
	return &Pipeline{
		cfg:    cfg,
		opts:   opts,
		logger: logger.With(zap.String("run_id", runID)),
		files:  utils.NewFileManager(cfg.BackupDir),
		runID:  runID,
	}
}

// RunID returns the identifier stamped on this pipeline's logs and reports.
func (p *Pipeline) RunID() string {
	return p.runID
}

func (p *Pipeline) newResult(command string) *Result {
	return &Result{
		RunID:       p.runID,
		Command:     command,
		DryRun:      p.opts.DryRun,
		CatalogFile: p.cfg.CatalogFile,
		StartTime:   time.Now(),
	}
}

// =============================================================================
// STAGES
// =============================================================================

// BuildCatalog reads the tabular export and builds the course records.
//
// RETURNS:
//   - The built records and row statistics.
//   - An error if the export cannot be opened or read.
func (p *Pipeline) BuildCatalog(ctx context.Context) (*CatalogResult, error) {
	source := p.opts.Rows
	if source == nil {
		var err error
		source, err = rowsource.Open(p.cfg.CoursesFile, rowsource.Options{
			Delimiter: p.cfg.CSVDelimiter,
			Sheet:     p.cfg.CoursesSheet,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open course export: %w", err)
		}
	}

	p.logger.Info("reading course export", zap.String("source", source.Name()))

	rows, err := source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read course export: %w", err)
	}

	builder := catalog.NewBuilder(
		catalog.WithSemesterCode(p.cfg.SemesterCode),
		catalog.WithLogger(p.logger),
	)
	records, stats := builder.Build(rows)

	p.logger.Info("built course records",
		zap.Int("rows", stats.RowsSeen),
		zap.Int("records", stats.RecordsBuilt),
		zap.Int("not_data", stats.NotDataRows),
		zap.Int("missing_code", stats.MissingCode),
		zap.Int("null_schedule", stats.NullSchedule),
		zap.Any("variants", stats.ByVariant),
	)

	return &CatalogResult{Source: source.Name(), Records: records, Stats: stats}, nil
}

// ScanVenues acquires the room chart and extracts the course to venue
// association. An unavailable or unreadable chart, or one without a single
// venue, is not an error: the result is marked Skipped and carries an empty
// association.
//
// RETURNS:
//   - The scan outcome.
//   - An error only for a bad course code pattern or a cancelled context.
func (p *Pipeline) ScanVenues(ctx context.Context) (*VenueResult, error) {
	scanner, err := venue.NewScanner(venue.ScannerOptions{CodePattern: p.cfg.CourseCodePattern})
	if err != nil {
		return nil, fmt.Errorf("failed to create venue scanner: %w", err)
	}

	result := &VenueResult{ChartFile: p.cfg.RoomChartFile, Association: venue.Association{}}

	source := p.opts.Text
	if source == nil {
		mode, err := textsource.ParseMode(p.cfg.TextMode)
		if err != nil {
			return nil, err
		}

		url := p.cfg.RoomChartURL
		if p.opts.Offline {
			url = ""
		}
		fetcher := textsource.NewFetcher(textsource.FetcherOptions{
			Timeout:            p.cfg.DownloadTimeout,
			InsecureSkipVerify: p.cfg.InsecureSkipVerify,
		}, p.logger)

		result.Downloaded, err = fetcher.Acquire(ctx, url, p.cfg.RoomChartFile)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return p.skipVenues(result, err), nil
		}
		source = textsource.NewPDF(p.cfg.RoomChartFile, mode, p.logger)
	}

	pages, err := source.Pages(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return p.skipVenues(result, err), nil
	}

	assoc := venue.ScanPages(scanner, pages, p.cfg.ResetOnPageBreak)
	if len(assoc) == 0 {
		return p.skipVenues(result, fmt.Errorf("%w: %s, %d page(s)", ErrNoVenues, result.ChartFile, len(pages))), nil
	}
	result.Association = assoc
	result.Unresolved = scanner.Unresolved()

	p.logger.Info("scanned room chart",
		zap.String("file", result.ChartFile),
		zap.Int("pages", len(pages)),
		zap.Int("codes", len(result.Association)),
		zap.Int("unresolved", len(result.Unresolved)),
	)
	if len(result.Unresolved) > 0 {
		p.logger.Debug("codes without a venue", zap.Strings("codes", result.Unresolved))
	}
	return result, nil
}

func (p *Pipeline) skipVenues(result *VenueResult, err error) *VenueResult {
	result.Skipped = err.Error()
	p.logger.Warn("skipping venue sync", zap.Error(err))
	return result
}

// =============================================================================
// COMMANDS
// =============================================================================

// Build rebuilds the catalogue from the tabular export. Venues are not
// scanned; venues already present in the catalogue on disk are carried over
// by course code.
func (p *Pipeline) Build(ctx context.Context) (*Result, error) {
	result := p.newResult(CommandBuild)

	built, err := p.BuildCatalog(ctx)
	if err != nil {
		return nil, err
	}
	result.Catalog = built

	records := p.carryVenues(built.Records)
	if err := p.finish(result, records, true); err != nil {
		return nil, err
	}
	return result, nil
}

// SyncVenues merges the room chart into the catalogue on disk. The catalogue
// is rewritten only when at least one venue changed.
//
// RETURNS:
//   - The outcome, with VenuesChanged and Written set.
//   - An error if the catalogue cannot be read or written.
func (p *Pipeline) SyncVenues(ctx context.Context) (*Result, error) {
	result := p.newResult(CommandVenues)

	records, err := catalogio.ReadFile(p.cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogue: %w", err)
	}

	scanned, err := p.ScanVenues(ctx)
	if err != nil {
		return nil, err
	}
	result.Venues = scanned

	merged, changed := venue.Merge(records, scanned.Association)
	result.VenuesChanged = changed
	p.logger.Info("merged venues", zap.Int("changed", changed))

	if err := p.finish(result, merged, changed > 0); err != nil {
		return nil, err
	}
	return result, nil
}

// Run builds the catalogue and syncs venues in one pass. The export is read
// and the chart is acquired and scanned concurrently; the merge waits for
// both.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := p.newResult(CommandRun)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		built, err := p.BuildCatalog(gctx)
		result.Catalog = built
		return err
	})
	g.Go(func() error {
		scanned, err := p.ScanVenues(gctx)
		result.Venues = scanned
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := result.Catalog.Records
	if result.Venues.Skipped != "" {
		records = p.carryVenues(records)
	} else {
		var changed int
		records, changed = venue.Merge(records, result.Venues.Association)
		result.VenuesChanged = changed
		p.logger.Info("merged venues", zap.Int("changed", changed))
	}

	if err := p.finish(result, records, true); err != nil {
		return nil, err
	}
	return result, nil
}

// carryVenues copies venues from the catalogue on disk onto freshly built
// records that have none. A missing or unreadable catalogue carries nothing.
func (p *Pipeline) carryVenues(records []types.CourseRecord) []types.CourseRecord {
	previous, err := catalogio.ReadFile(p.cfg.CatalogFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			p.logger.Warn("previous catalogue unreadable, venues not carried over", zap.Error(err))
		}
		return records
	}

	assoc := venue.Association{}
	for _, rec := range previous {
		if v := rec.Venue(); v != "" {
			assoc.Add(rec.CourseCode, v)
		}
	}

	merged, carried := venue.Merge(records, assoc)
	if carried > 0 {
		p.logger.Info("carried venues from previous catalogue", zap.Int("records", carried))
	}
	return merged
}

// =============================================================================
// OUTPUT
// =============================================================================

// finish validates records, writes the catalogue and exports when allowed,
// and records the run summary.
func (p *Pipeline) finish(result *Result, records []types.CourseRecord, write bool) error {
	result.Records = records
	result.Validation = p.validate(records)

	if write {
		if err := p.writeOutputs(result, records); err != nil {
			return err
		}
	} else {
		p.logger.Info("catalogue unchanged, not rewritten", zap.String("file", p.cfg.CatalogFile))
	}

	result.EndTime = time.Now()
	p.writeSummary(result)
	return nil
}

// validate logs findings and writes the validation log. Findings never fail
// a run.
func (p *Pipeline) validate(records []types.CourseRecord) *validation.ValidationResult {
	v := validation.NewValidator().ValidateAll(records)
	if len(v.Errors) == 0 {
		return v
	}

	p.logger.Warn("catalogue has validation findings",
		zap.Int("errors", v.ErrorCount),
		zap.Int("warnings", v.WarningCount),
	)
	for _, f := range v.Errors {
		p.logger.Debug("validation finding",
			zap.String("rule", f.Rule),
			zap.String("course", f.CourseCode),
			zap.Int("index", f.Index),
			zap.String("message", f.Message),
		)
	}

	if p.cfg.ReportDir != "" && !p.opts.DryRun {
		path := filepath.Join(p.cfg.ReportDir,
			utils.GenerateOutputFileName("validation_{timestamp}_{run}", ".log", map[string]string{"run": p.runID[:8]}))
		if err := utils.EnsureDirectories(p.cfg.ReportDir); err != nil {
			p.logger.Warn("failed to create report directory", zap.Error(err))
		} else if err := validation.WriteErrorLog(v.Errors, path); err != nil {
			p.logger.Warn("failed to write validation log", zap.Error(err))
		}
	}
	return v
}

// writeOutputs writes the catalogue and the optional exports. A catalogue
// whose encoding matches the file on disk byte for byte is not rewritten.
func (p *Pipeline) writeOutputs(result *Result, records []types.CourseRecord) error {
	var buf bytes.Buffer
	if err := catalogio.Encode(&buf, records); err != nil {
		return fmt.Errorf("failed to encode catalogue: %w", err)
	}

	if p.opts.DryRun {
		p.logger.Info("dry run, catalogue not written",
			zap.String("file", p.cfg.CatalogFile),
			zap.Int("records", len(records)),
		)
		return nil
	}

	if existing, err := os.ReadFile(p.cfg.CatalogFile); err == nil && bytes.Equal(existing, buf.Bytes()) {
		p.logger.Info("catalogue already up to date", zap.String("file", p.cfg.CatalogFile))
	} else {
		backup, err := p.files.BackupFile(p.cfg.CatalogFile)
		if err != nil {
			return err
		}
		result.BackupPath = backup

		if err := utils.WriteFileAtomic(p.cfg.CatalogFile, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write catalogue: %w", err)
		}
		result.Written = true
		p.logger.Info("wrote catalogue",
			zap.String("file", p.cfg.CatalogFile),
			zap.Int("records", len(records)),
			zap.String("backup", backup),
		)
	}

	if path := p.cfg.CSVExportFile; path != "" {
		if err := catalogio.ExportCSVFile(path, records); err != nil {
			return err
		}
		result.Exports = append(result.Exports, path)
	}

	if path := p.cfg.XMLExportFile; path != "" {
		opts := xmlwriter.DefaultGenerateOptions()
		opts.RootAttributes = map[string]string{"run": p.runID}
		data, err := xmlwriter.GenerateWithOptions(records, opts)
		if err != nil {
			return fmt.Errorf("failed to generate XML export: %w", err)
		}
		if err := utils.WriteFileAtomic(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write XML export: %w", err)
		}
		result.Exports = append(result.Exports, path)
	}

	for _, path := range result.Exports {
		p.logger.Info("wrote export", zap.String("file", path))
	}
	return nil
}

func (p *Pipeline) writeSummary(result *Result) {
	if p.cfg.ReportDir == "" || p.opts.DryRun {
		return
	}
	path, err := utils.WriteSummaryLog(result.Summary(), p.cfg.ReportDir)
	if err != nil {
		p.logger.Warn("failed to write run summary", zap.Error(err))
		return
	}
	result.SummaryPath = path
}
