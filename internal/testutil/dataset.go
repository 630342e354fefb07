package testutil

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// DatasetHeader mirrors the column order of the TMDB export.
var DatasetHeader = []string{
	"id", "title", "vote_average", "vote_count", "status", "release_date", "revenue", "runtime",
	"budget", "popularity", "genres", "production_companies", "production_countries",
	"original_language", "overview",
}

// MovieRow is one raw dataset row. Fields are written as-is.
type MovieRow struct {
	ID          string
	Title       string
	ReleaseDate string
	Runtime     string
	Budget      string
	Revenue     string
	VoteAverage string
	VoteCount   string
	Popularity  string
	Genres      string
	Countries   string
	Companies   string
}

func (r MovieRow) record() []string {
	return []string{
		r.ID, r.Title, r.VoteAverage, r.VoteCount, "Released", r.ReleaseDate, r.Revenue, r.Runtime,
		r.Budget, r.Popularity, r.Genres, r.Companies, r.Countries, "en", "",
	}
}

// DatasetCSV renders rows below the standard header.
func DatasetCSV(rows ...MovieRow) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(DatasetHeader)
	for _, r := range rows {
		_ = w.Write(r.record())
	}
	w.Flush()
	return buf.String()
}

// WriteDatasetFile writes rows into dir and returns the file path.
func WriteDatasetFile(t *testing.T, dir string, rows ...MovieRow) string {
	t.Helper()
	path := filepath.Join(dir, "movies.csv")
	if err := os.WriteFile(path, []byte(DatasetCSV(rows...)), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

// SampleRows is a small dataset covering every chart tab.
func SampleRows() []MovieRow {
	return []MovieRow{
		{ID: "1", Title: "Big Comedy", ReleaseDate: "2021-06-01", Runtime: "100", Budget: "1000000", Revenue: "3000000",
			VoteAverage: "7.1", VoteCount: "1200", Popularity: "30.5", Genres: "Comedy, Romance",
			Countries: "United States of America", Companies: "Universal Pictures, Pixar"},
		{ID: "2", Title: "Dark Night", ReleaseDate: "2021-10-31", Runtime: "95", Budget: "20000000", Revenue: "10000000",
			VoteAverage: "5.9", VoteCount: "800", Popularity: "12", Genres: "Horror, Thriller",
			Countries: "United States of America, Canada", Companies: "Lionsgate"},
		{ID: "3", Title: "Seoul Story", ReleaseDate: "2019-02-14", Runtime: "120", Budget: "5000000", Revenue: "25000000",
			VoteAverage: "8.2", VoteCount: "3000", Popularity: "45", Genres: "Drama, Romance",
			Countries: "South Korea", Companies: "CJ Entertainment"},
		{ID: "4", Title: "Old Toon", ReleaseDate: "1995-11-22", Runtime: "81", Budget: "30000000", Revenue: "370000000",
			VoteAverage: "8.0", VoteCount: "17000", Popularity: "90", Genres: "Animation, Comedy",
			Countries: "United States of America", Companies: "Pixar Animation Studios"},
		{ID: "5", Title: "No Date Doc", ReleaseDate: "", Runtime: "60", Budget: "0", Revenue: "0",
			VoteAverage: "6.5", VoteCount: "10", Popularity: "1.2", Genres: "Documentary",
			Countries: "France", Companies: "Arte"},
		{ID: "6", Title: "Paris Nights", ReleaseDate: "1985-03-01", Runtime: "110", Budget: "2000000", Revenue: "1000000",
			VoteAverage: "6.8", VoteCount: "300", Popularity: "5", Genres: "Drama",
			Countries: "France", Companies: "Gaumont"},
	}
}
