package dataprocessing

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "tmdbreport/internal/errors"
	"tmdbreport/internal/infrastructure"
	"tmdbreport/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PreparerConfig holds options for reading a dataset.
type PreparerConfig struct {
	// Delimiter separates fields in delimited text. Zero picks one from the
	// file extension: tab for .tsv, ',' otherwise.
	Delimiter rune
	// Sheet selects the workbook sheet; empty means the first sheet.
	Sheet string
}

// Preparer loads and cleans movie datasets. It holds no dataset state and
// may be reused.
type Preparer struct {
	logger  *slog.Logger
	config  PreparerConfig
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// PreparerOption customizes a Preparer.
type PreparerOption func(*Preparer)

// WithTracer records a dataset.load span per load.
func WithTracer(tracer trace.Tracer) PreparerOption {
	return func(p *Preparer) { p.tracer = tracer }
}

// WithMetrics adds load statistics to the pipeline counters.
func WithMetrics(metrics *infrastructure.PipelineMetrics) PreparerOption {
	return func(p *Preparer) { p.metrics = metrics }
}

// NewPreparer creates a dataset preparer.
func NewPreparer(logger *slog.Logger, config PreparerConfig, opts ...PreparerOption) *Preparer {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Preparer{
		logger: infrastructure.WithComponent(logger, "dataset_preparer"),
		config: config,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LoadFile prepares the dataset stored at path. Files ending in .xlsx or
// .xlsm are read as workbooks, everything else as delimited text.
func (p *Preparer) LoadFile(ctx context.Context, path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open dataset", err).WithContext("path", path)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" || ext == ".xlsm" {
		return p.LoadWorkbook(ctx, f)
	}
	return p.loadDelimited(ctx, f, p.delimiterFor(ext))
}

// Load prepares a dataset from delimited text.
func (p *Preparer) Load(ctx context.Context, r io.Reader) (*Dataset, error) {
	return p.loadDelimited(ctx, r, p.delimiterFor(""))
}

// delimiterFor returns the configured delimiter, or the one implied by ext.
func (p *Preparer) delimiterFor(ext string) rune {
	switch {
	case p.config.Delimiter != 0:
		return p.config.Delimiter
	case ext == ".tsv":
		return '\t'
	}
	return ','
}

func (p *Preparer) loadDelimited(ctx context.Context, r io.Reader, comma rune) (*Dataset, error) {
	return p.load(ctx, "csv", func(b *datasetBuilder) error {
		return p.readDelimited(ctx, r, comma, b)
	})
}

// LoadWorkbook prepares a dataset from an XLSX workbook.
func (p *Preparer) LoadWorkbook(ctx context.Context, r io.Reader) (*Dataset, error) {
	return p.load(ctx, "xlsx", func(b *datasetBuilder) error {
		b.parseDate = workbookDate
		return p.readWorkbook(ctx, r, b)
	})
}

func (p *Preparer) load(ctx context.Context, format string, read func(*datasetBuilder) error) (*Dataset, error) {
	start := time.Now()
	ctx, span := infrastructure.StartSpan(ctx, p.tracer, "dataset.load",
		attribute.String("dataset.format", format))
	defer span.End()

	b := &datasetBuilder{
		ctx:    ctx,
		logger: p.logger,
		parseDate: func(s string) (time.Time, string, bool) {
			t, ok := ParseReleaseDate(s)
			return t, s, ok
		},
	}

	if err := read(b); err != nil {
		infrastructure.RecordError(ctx, err)
		infrastructure.WithError(p.logger, err).ErrorContext(ctx, "dataset load failed",
			slog.String("format", format))
		return nil, err
	}

	ds := b.dataset()
	span.SetAttributes(
		attribute.Int("dataset.rows_read", ds.stats.RowsRead),
		attribute.Int("dataset.retained", ds.stats.Retained),
	)
	p.metrics.RecordLoad(ctx, ds.stats)

	p.logger.InfoContext(ctx, "dataset prepared",
		slog.String("format", format),
		slog.Int("rows_read", ds.stats.RowsRead),
		slog.Int("retained", ds.stats.Retained),
		slog.Int("dropped", ds.stats.Dropped),
		slog.Int("unparsable_dates", ds.stats.UnparsableDates),
		slog.Duration("duration", time.Since(start)))

	return ds, nil
}

func (p *Preparer) readDelimited(ctx context.Context, r io.Reader, comma rune, b *datasetBuilder) error {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return delimitedError(err)
	}
	if err := b.setHeader(header); err != nil {
		return err
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return delimitedError(err)
		}
		if b.stats.RowsRead%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		line, _ := reader.FieldPos(0)
		b.add(row, line)
	}
}

func delimitedError(err error) error {
	if errors.Is(err, io.EOF) {
		return apperrors.NewParsingError("failed to read header", ErrEmptyInput)
	}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return apperrors.NewParsingError(fmt.Sprintf("malformed input at line %d", pe.Line), err).
			WithContext("line", pe.Line)
	}
	return apperrors.NewStorageError("failed to read dataset", err)
}

func (p *Preparer) readWorkbook(ctx context.Context, r io.Reader, b *datasetBuilder) error {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return apperrors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	sheet := p.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return apperrors.NewParsingError("failed to read header", ErrEmptyInput)
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return apperrors.NewParsingError("failed to read sheet", err).WithContext("sheet", sheet)
	}
	defer rows.Close()

	rowNum := 0
	headerSeen := false
	for rows.Next() {
		rowNum++
		row, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return apperrors.NewParsingError(fmt.Sprintf("malformed row %d", rowNum), err).
				WithContext("row", rowNum)
		}
		if blankRow(row) {
			continue
		}
		if !headerSeen {
			if err := b.setHeader(row); err != nil {
				return err
			}
			headerSeen = true
			continue
		}
		if b.stats.RowsRead%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		b.add(row, rowNum)
	}
	if err := rows.Error(); err != nil {
		return apperrors.NewParsingError("failed to iterate sheet", err).WithContext("sheet", sheet)
	}
	if !headerSeen {
		return apperrors.NewParsingError("failed to read header", ErrEmptyInput)
	}
	return nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

type datasetBuilder struct {
	ctx       context.Context
	logger    *slog.Logger
	idx       columnIndices
	columns   []string
	movies    []domain.Movie
	stats     domain.LoadStats
	parseDate func(string) (time.Time, string, bool)
}

func (b *datasetBuilder) setHeader(header []string) error {
	idx, names, err := findColumns(header)
	var missing *MissingColumnsError
	if errors.As(err, &missing) {
		return apperrors.NewParsingError("header check failed", err).
			WithContext("missing_columns", missing.Columns)
	}
	b.idx = idx
	b.columns = names
	return nil
}

func (b *datasetBuilder) add(row []string, line int) {
	b.stats.RowsRead++

	title := cell(row, b.idx.title)
	voteText := strings.TrimSpace(cell(row, b.idx.voteAverage))
	released := cell(row, b.idx.releaseDate)

	var reason string
	vote, err := strconv.ParseFloat(voteText, 64)
	switch {
	case isNull(title):
		reason = "missing title"
	case isNull(voteText):
		reason = "missing vote_average"
	case isNull(released):
		reason = "missing release_date"
	case err != nil || math.IsNaN(vote) || math.IsInf(vote, 0):
		reason = "unparsable vote_average"
	}
	if reason != "" {
		b.stats.Dropped++
		b.logger.DebugContext(b.ctx, "row dropped",
			slog.Int("line", line),
			slog.String("reason", reason))
		return
	}

	m := domain.Movie{
		Title:       title,
		VoteAverage: vote,
		Popularity:  math.NaN(),
		Row:         line,
	}
	if count, ok := parseCount(cell(row, b.idx.voteCount)); ok {
		m.VoteCount = count
		m.HasVoteCount = true
	}
	if pop, ok := parseReal(cell(row, b.idx.popularity)); ok {
		m.Popularity = pop
	}

	t, text, ok := b.parseDate(released)
	m.ReleaseDate = text
	if ok {
		m.Released = t
	} else {
		b.stats.UnparsableDates++
	}

	b.movies = append(b.movies, m)
}

func (b *datasetBuilder) dataset() *Dataset {
	b.stats.Retained = len(b.movies)
	return &Dataset{movies: b.movies, columns: b.columns, stats: b.stats}
}

func parseReal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseCount accepts integers and integral reals such as "1200.0".
func parseCount(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	v, ok := parseReal(s)
	if !ok || v != math.Trunc(v) || math.Abs(v) > 1<<53 {
		return 0, false
	}
	return int64(v), true
}
