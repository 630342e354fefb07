package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"cinescope/internal/core/domain"
)

// YearRange is an inclusive filter on the release year
type YearRange struct {
	From int
	To   int
}

func (r YearRange) validate() error {
	if r.From > r.To {
		return fmt.Errorf("%w: from %d is after to %d", domain.ErrInvalidRange, r.From, r.To)
	}
	return nil
}

// orDefault fills zero bounds from def.
func (r YearRange) orDefault(def YearRange) YearRange {
	if r.From == 0 {
		r.From = def.From
	}
	if r.To == 0 {
		r.To = def.To
	}
	return r
}

const maxLimit = 100000

func checkLimit(limit, def int) (int, error) {
	if limit == 0 {
		return def, nil
	}
	if limit < 1 || limit > maxLimit {
		return 0, domain.ErrInvalidLimit
	}
	return limit, nil
}

// uniqueFold drops repeated values, comparing case-insensitively and keeping the first spelling.
func uniqueFold(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// strideSample picks limit movies spread evenly over matches, keeping file order.
func strideSample(matches []*domain.Movie, limit int) []*domain.Movie {
	if len(matches) <= limit {
		return matches
	}
	step := float64(len(matches)) / float64(limit)
	picked := make([]*domain.Movie, 0, limit)
	for i := 0; i < limit; i++ {
		picked = append(picked, matches[int(float64(i)*step)])
	}
	return picked
}

type labelCount struct {
	Label string
	Count int
}

type counter map[string]int

// top returns the n largest entries by count, ties broken by label. n <= 0 returns all.
func (c counter) top(n int) []labelCount {
	out := make([]labelCount, 0, len(c))
	for k, v := range c {
		out = append(out, labelCount{Label: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func (c counter) total() int {
	t := 0
	for _, v := range c {
		t += v
	}
	return t
}

func toBars(counts []labelCount) []domain.Bar {
	bars := make([]domain.Bar, 0, len(counts))
	for _, lc := range counts {
		bars = append(bars, domain.Bar{Label: lc.Label, Value: float64(lc.Count), Count: lc.Count})
	}
	return bars
}

func toSlices(counts []labelCount) []domain.Slice {
	total := 0
	for _, lc := range counts {
		total += lc.Count
	}
	slices := make([]domain.Slice, 0, len(counts))
	for _, lc := range counts {
		pct := 0.0
		if total > 0 {
			pct = round2(100 * float64(lc.Count) / float64(total))
		}
		slices = append(slices, domain.Slice{Label: lc.Label, Value: float64(lc.Count), Percent: pct})
	}
	return slices
}

func log10p1(n int) float64 {
	return math.Log10(float64(n) + 1)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// pearson returns the correlation of xs and ys, 0 when either has no variance.
func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	if n < 2 {
		return 0
	}
	var sx, sy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
	}
	mx, my := sx/n, sy/n
	var cov, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0
	}
	return cov / math.Sqrt(vx*vy)
}

// period is a half-open year interval [From, To).
type period struct {
	From, To int
}

func (p period) label() string {
	return fmt.Sprintf("%d-%d", p.From, p.To-1)
}

// fiveYearPeriods returns [start, start+5), ... up to but excluding end.
func fiveYearPeriods(start, end int) []period {
	var out []period
	for y := start; y+5 <= end; y += 5 {
		out = append(out, period{From: y, To: y + 5})
	}
	return out
}

func periodIndex(periods []period, year int) int {
	for i, p := range periods {
		if year >= p.From && year < p.To {
			return i
		}
	}
	return -1
}

func decadeLabel(year int) string {
	return fmt.Sprintf("%ds", domain.YearBucket(year))
}

// genreDecadeFlow builds a sankey from the top genres of movies to release decades.
func genreDecadeFlow(title string, movies []*domain.Movie, topGenres int) *domain.Sankey {
	genreCounts := counter{}
	for _, m := range movies {
		for _, g := range m.Genres {
			genreCounts[g]++
		}
	}
	top := genreCounts.top(topGenres)

	chart := &domain.Sankey{Title: title, Nodes: []string{}, Links: []domain.SankeyLink{}}
	if len(top) == 0 {
		return chart
	}

	genreIdx := make(map[string]int, len(top))
	for _, lc := range top {
		genreIdx[lc.Label] = len(chart.Nodes)
		chart.Nodes = append(chart.Nodes, lc.Label)
	}

	type key struct {
		genre  string
		decade int
	}
	flows := map[key]int{}
	decades := map[int]struct{}{}
	for _, m := range movies {
		if m.YearBucket == nil {
			continue
		}
		for _, g := range m.Genres {
			if _, ok := genreIdx[g]; ok {
				flows[key{g, *m.YearBucket}]++
				decades[*m.YearBucket] = struct{}{}
			}
		}
	}

	ordered := make([]int, 0, len(decades))
	for d := range decades {
		ordered = append(ordered, d)
	}
	sort.Ints(ordered)
	decadeIdx := make(map[int]int, len(ordered))
	for _, d := range ordered {
		decadeIdx[d] = len(chart.Nodes)
		chart.Nodes = append(chart.Nodes, decadeLabel(d))
	}

	for _, lc := range top {
		for _, d := range ordered {
			if v := flows[key{lc.Label, d}]; v > 0 {
				chart.Links = append(chart.Links, domain.SankeyLink{
					Source: genreIdx[lc.Label],
					Target: decadeIdx[d],
					Value:  v,
				})
			}
		}
	}
	return chart
}
