package services

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"cinescope/internal/core/domain"
	ports "cinescope/internal/core/ports/output"
)

// Column names of the dataset CSV
const (
	ColID                  = "id"
	ColTitle               = "title"
	ColReleaseDate         = "release_date"
	ColRuntime             = "runtime"
	ColBudget              = "budget"
	ColRevenue             = "revenue"
	ColVoteAverage         = "vote_average"
	ColVoteCount           = "vote_count"
	ColPopularity          = "popularity"
	ColGenres              = "genres"
	ColProductionCountries = "production_countries"
	ColProductionCompanies = "production_companies"
	ColOverview            = "overview"
	ColOriginalLanguage    = "original_language"
	ColStatus              = "status"
)

// RequiredColumns must all be present in the header or the load fails with ErrSchema.
var RequiredColumns = []string{
	ColTitle, ColReleaseDate, ColRuntime, ColBudget, ColRevenue,
	ColVoteAverage, ColVoteCount, ColPopularity,
	ColGenres, ColProductionCountries, ColProductionCompanies,
}

var releaseDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"2006-01",
	"2006",
}

const cancelCheckEvery = 4096

// LoaderService loads the cached CSV into an immutable table and derives columns.
//
// Row policy: rows without a title and malformed CSV records are dropped;
// rows with a missing or unparseable release date are kept without a year;
// unparseable numeric fields become missing. Every case is counted in the
// LoadReport and logged once after the load.
type LoaderService struct {
	metrics ports.ProvisionMetrics
	now     func() time.Time
}

func NewLoaderService(metrics ports.ProvisionMetrics) *LoaderService {
	return &LoaderService{metrics: metrics, now: time.Now}
}

// Load reads the dataset file at path.
func (s *LoaderService) Load(ctx context.Context, path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrDisk, path, err)
	}
	defer f.Close()

	return s.Read(ctx, f)
}

// Read parses a dataset stream.
func (s *LoaderService) Read(ctx context.Context, r io.Reader) (*domain.Table, error) {
	start := s.now()
	currentYear := start.Year()

	reader := csv.NewReader(bufio.NewReaderSize(r, 1<<20))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: file is empty", domain.ErrSchema)
		}
		return nil, fmt.Errorf("%w: read header: %v", domain.ErrSchema, err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	report := domain.LoadReport{ParseErrors: map[string]int{}}
	var movies []domain.Movie

	for {
		if report.RowsRead%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				report.RowsRead++
				report.RowsDropped++
				continue
			}
			return nil, fmt.Errorf("%w: read row %d: %v", domain.ErrDisk, report.RowsRead+1, err)
		}
		report.RowsRead++

		movie, ok := parseMovie(record, cols, currentYear, &report)
		if !ok {
			report.RowsDropped++
			continue
		}
		if movie.Year == nil {
			report.MissingYear++
		}
		movies = append(movies, movie)
	}
	report.RowsKept = len(movies)

	elapsed := s.now().Sub(start)
	log.WithFields(log.Fields{
		"rows_read":  report.RowsRead,
		"rows_kept":  report.RowsKept,
		"elapsed_ms": elapsed.Milliseconds(),
	}).Info("dataset loaded")
	if report.HasProblems() {
		log.WithFields(log.Fields{
			"rows_dropped":       report.RowsDropped,
			"rows_missing_year":  report.MissingYear,
			"field_parse_errors": formatCounts(report.ParseErrors),
		}).Warn("dataset rows with unparseable fields")
	}
	if s.metrics != nil {
		s.metrics.ObserveLoad(report, elapsed)
	}

	return domain.NewTable(movies, report), nil
}

type columnIndex map[string]int

func (c columnIndex) get(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func indexColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", domain.ErrSchema, strings.Join(missing, ", "))
	}
	return cols, nil
}

// parseMovie converts one record. It returns false when the row must be dropped.
func parseMovie(record []string, cols columnIndex, currentYear int, report *domain.LoadReport) (domain.Movie, bool) {
	m := domain.Movie{Title: cols.get(record, ColTitle)}
	if m.Title == "" {
		return m, false
	}

	if raw := cols.get(record, ColID); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			m.ID = id
		} else {
			report.ParseErrors[ColID]++
		}
	}

	date, err := parseReleaseDate(cols.get(record, ColReleaseDate), currentYear)
	if err != nil {
		report.ParseErrors[ColReleaseDate]++
	}
	m.ReleaseDate = date

	numeric := []struct {
		col         string
		dst         **float64
		nonNegative bool
	}{
		{ColRuntime, &m.Runtime, true},
		{ColBudget, &m.Budget, true},
		{ColRevenue, &m.Revenue, true},
		{ColVoteAverage, &m.VoteAverage, false},
		{ColVoteCount, &m.VoteCount, true},
		{ColPopularity, &m.Popularity, false},
	}
	for _, n := range numeric {
		v, err := parseNumber(cols.get(record, n.col))
		if err == nil && v != nil && n.nonNegative && *v < 0 {
			v, err = nil, fmt.Errorf("%w: negative value", domain.ErrParse)
		}
		if err != nil {
			report.ParseErrors[n.col]++
		}
		*n.dst = v
	}

	m.Genres = domain.SplitTags(cols.get(record, ColGenres))
	m.Countries = domain.SplitTags(cols.get(record, ColProductionCountries))
	m.Companies = domain.SplitTags(cols.get(record, ColProductionCompanies))
	m.Overview = cols.get(record, ColOverview)
	m.OriginalLanguage = cols.get(record, ColOriginalLanguage)
	m.Status = cols.get(record, ColStatus)

	m.Derive()
	return m, true
}

// parseNumber returns nil for an empty or NaN-like cell.
func parseNumber(raw string) (*float64, error) {
	switch strings.ToLower(raw) {
	case "", "nan", "null", "none":
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %q is not finite", domain.ErrParse, raw)
	}
	return &v, nil
}

// parseReleaseDate returns nil without error for an empty cell, and an
// ErrParse for an unrecognised date or a year outside [1900, currentYear].
func parseReleaseDate(raw string, currentYear int) (*time.Time, error) {
	if raw == "" || strings.EqualFold(raw, "nan") {
		return nil, nil
	}
	for _, layout := range releaseDateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if !domain.ValidReleaseYear(t.Year(), currentYear) {
			return nil, fmt.Errorf("%w: release year %d out of range", domain.ErrParse, t.Year())
		}
		return &t, nil
	}
	return nil, fmt.Errorf("%w: release date %q", domain.ErrParse, raw)
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k, v := range counts {
		if v > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}
