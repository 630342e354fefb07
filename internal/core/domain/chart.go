package domain

// Chart specs are the data half of a chart: what the browser needs to draw it.
// Rendering (colors, sizes, layout) stays on the client.

type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Count int     `json:"count,omitempty"`
}

type BarChart struct {
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`
	Bars   []Bar  `json:"bars"`
}

type Slice struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

type PieChart struct {
	Title  string  `json:"title"`
	Hole   float64 `json:"hole,omitempty"`
	Slices []Slice `json:"slices"`
}

type Heatmap struct {
	Title     string      `json:"title"`
	XLabel    string      `json:"x_label"`
	YLabel    string      `json:"y_label"`
	Columns   []string    `json:"columns"`
	Rows      []string    `json:"rows"`
	Counts    [][]int     `json:"counts"`
	LogValues [][]float64 `json:"log_values"`
}

type CorrelationMatrix struct {
	Title   string      `json:"title"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
	Samples int         `json:"samples"`
}

type SankeyLink struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Value  int `json:"value"`
}

type Sankey struct {
	Title string       `json:"title"`
	Nodes []string     `json:"nodes"`
	Links []SankeyLink `json:"links"`
}

type TreemapTile struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

type Treemap struct {
	Title  string        `json:"title"`
	Metric string        `json:"metric"`
	Tiles  []TreemapTile `json:"tiles"`
}

type SunburstNode struct {
	ID     string `json:"id"`
	Parent string `json:"parent"`
	Label  string `json:"label"`
	Value  int    `json:"value"`
}

type Sunburst struct {
	Title string         `json:"title"`
	Nodes []SunburstNode `json:"nodes"`
}

type StreamSeries struct {
	Name      string    `json:"name"`
	Direction string    `json:"direction"`
	Share     []float64 `json:"share"`
	Stacked   []float64 `json:"stacked"`
}

type Streamgraph struct {
	Title  string         `json:"title"`
	Years  []int          `json:"years"`
	Series []StreamSeries `json:"series"`
}

type ScatterPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

// ScaleLog marks an axis to be drawn on a logarithmic scale.
const ScaleLog = "log"

type ScatterPlot struct {
	Title  string         `json:"title"`
	XLabel string         `json:"x_label"`
	YLabel string         `json:"y_label"`
	XScale string         `json:"x_scale,omitempty"`
	YScale string         `json:"y_scale,omitempty"`
	Total  int            `json:"total"`
	Points []ScatterPoint `json:"points"`
}

type Region struct {
	Country   string  `json:"country"`
	ISO3      string  `json:"iso_alpha3"`
	Movies    int     `json:"movies"`
	LogMovies float64 `json:"log_movies"`
}

type Choropleth struct {
	Title    string   `json:"title"`
	Regions  []Region `json:"regions"`
	Unmapped []string `json:"unmapped,omitempty"`
}
