package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cinescope/internal/core/domain"
	ports "cinescope/internal/core/ports/output"
)

const schema = `
	CREATE TABLE IF NOT EXISTS movie (
		id                   BIGINT,
		title                TEXT NOT NULL,
		release_date         DATE,
		year                 INT,
		year_bucket          INT,
		runtime              DOUBLE PRECISION,
		budget               DOUBLE PRECISION,
		revenue              DOUBLE PRECISION,
		profit               DOUBLE PRECISION,
		roi                  DOUBLE PRECISION,
		vote_average         DOUBLE PRECISION,
		vote_count           DOUBLE PRECISION,
		popularity           DOUBLE PRECISION,
		genres               TEXT[] NOT NULL DEFAULT '{}',
		production_countries TEXT[] NOT NULL DEFAULT '{}',
		production_companies TEXT[] NOT NULL DEFAULT '{}',
		original_language    TEXT,
		status               TEXT
	);
	CREATE TABLE IF NOT EXISTS dataset_load (
		id           UUID PRIMARY KEY,
		created_at   TIMESTAMPTZ NOT NULL,
		remote_id    TEXT NOT NULL,
		path         TEXT NOT NULL,
		size_bytes   BIGINT NOT NULL,
		cache_hit    BOOLEAN NOT NULL,
		rows_read    INT NOT NULL,
		rows_kept    INT NOT NULL,
		rows_dropped INT NOT NULL,
		missing_year INT NOT NULL,
		parse_errors JSONB NOT NULL
	);
`

var movieColumns = []string{
	"id", "title", "release_date", "year", "year_bucket",
	"runtime", "budget", "revenue", "profit", "roi",
	"vote_average", "vote_count", "popularity",
	"genres", "production_countries", "production_companies",
	"original_language", "status",
}

type snapshotRepo struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a SnapshotRepository that mirrors the loaded
// dataset into Postgres for ad-hoc SQL analysis.
func NewSnapshotRepository(pool *pgxpool.Pool) ports.SnapshotRepository {
	return &snapshotRepo{pool: pool}
}

func (r *snapshotRepo) ReplaceMovies(ctx context.Context, table *domain.Table) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, schema); err != nil {
		return 0, fmt.Errorf("ensure snapshot schema: %w", err)
	}
	if _, err := tx.Exec(ctx, `TRUNCATE movie`); err != nil {
		return 0, fmt.Errorf("truncate movie: %w", err)
	}

	movies := table.Where(func(*domain.Movie) bool { return true })
	n, err := tx.CopyFrom(ctx, pgx.Identifier{"movie"}, movieColumns,
		pgx.CopyFromSlice(len(movies), func(i int) ([]any, error) {
			return movieRow(movies[i]), nil
		}))
	if err != nil {
		return 0, fmt.Errorf("copy movies: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit snapshot: %w", err)
	}
	return n, nil
}

func (r *snapshotRepo) RecordLoad(ctx context.Context, file *domain.DatasetFile, report domain.LoadReport) error {
	parseErrors, err := json.Marshal(report.ParseErrors)
	if err != nil {
		return fmt.Errorf("marshal parse errors: %w", err)
	}

	query := `
		INSERT INTO dataset_load
			(id, created_at, remote_id, path, size_bytes, cache_hit,
			 rows_read, rows_kept, rows_dropped, missing_year, parse_errors)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.pool.Exec(ctx, query,
		uuid.New(), time.Now().UTC(), file.RemoteID, file.Path, file.SizeBytes, file.CacheHit,
		report.RowsRead, report.RowsKept, report.RowsDropped, report.MissingYear, parseErrors,
	)
	if err != nil {
		return fmt.Errorf("record dataset load: %w", err)
	}
	return nil
}

// movieRow orders a movie's values like movieColumns. Missing values stay nil.
func movieRow(m *domain.Movie) []any {
	var id any
	if m.ID != 0 {
		id = m.ID
	}
	return []any{
		id, m.Title, m.ReleaseDate, m.Year, m.YearBucket,
		m.Runtime, m.Budget, m.Revenue, m.Profit, m.ROI,
		m.VoteAverage, m.VoteCount, m.Popularity,
		nonNil(m.Genres), nonNil(m.Countries), nonNil(m.Companies),
		m.OriginalLanguage, m.Status,
	}
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
