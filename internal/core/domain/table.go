package domain

import "sort"

// LoadReport aggregates what happened while loading the dataset.
type LoadReport struct {
	RowsRead    int            `json:"rows_read"`
	RowsKept    int            `json:"rows_kept"`
	RowsDropped int            `json:"rows_dropped"`
	MissingYear int            `json:"missing_year"`
	ParseErrors map[string]int `json:"parse_errors"`
}

// HasProblems reports whether any row was dropped or had an unparseable field.
func (r LoadReport) HasProblems() bool {
	if r.RowsDropped > 0 || r.MissingYear > 0 {
		return true
	}
	for _, n := range r.ParseErrors {
		if n > 0 {
			return true
		}
	}
	return false
}

// TotalParseErrors sums the per-column parse error counters.
func (r LoadReport) TotalParseErrors() int {
	total := 0
	for _, n := range r.ParseErrors {
		total += n
	}
	return total
}

// Table is the immutable, loaded dataset. It is built once and then only read,
// so it can be shared by concurrent request handlers without locking.
type Table struct {
	movies []Movie
	report LoadReport
}

func NewTable(movies []Movie, report LoadReport) *Table {
	if report.ParseErrors == nil {
		report.ParseErrors = map[string]int{}
	}
	return &Table{movies: movies, report: report}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.movies)
}

func (t *Table) Report() LoadReport {
	r := t.report
	r.ParseErrors = make(map[string]int, len(t.report.ParseErrors))
	for k, v := range t.report.ParseErrors {
		r.ParseErrors[k] = v
	}
	return r
}

// Each calls fn for every movie in file order until fn returns false.
// Callers must treat the movie as read-only.
func (t *Table) Each(fn func(m *Movie) bool) {
	if t == nil {
		return
	}
	for i := range t.movies {
		if !fn(&t.movies[i]) {
			return
		}
	}
}

// Where returns the movies matching pred, in file order.
func (t *Table) Where(pred func(m *Movie) bool) []*Movie {
	var out []*Movie
	t.Each(func(m *Movie) bool {
		if pred(m) {
			out = append(out, m)
		}
		return true
	})
	return out
}

// Count returns how many movies match pred.
func (t *Table) Count(pred func(m *Movie) bool) int {
	n := 0
	t.Each(func(m *Movie) bool {
		if pred(m) {
			n++
		}
		return true
	})
	return n
}

// Genres lists every distinct genre tag, sorted.
func (t *Table) Genres() []string {
	return t.distinct(func(m *Movie) []string { return m.Genres })
}

// Countries lists every distinct production country, sorted.
func (t *Table) Countries() []string {
	return t.distinct(func(m *Movie) []string { return m.Countries })
}

func (t *Table) distinct(field func(m *Movie) []string) []string {
	seen := map[string]struct{}{}
	t.Each(func(m *Movie) bool {
		for _, v := range field(m) {
			seen[v] = struct{}{}
		}
		return true
	})
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
