package services

import (
	"strings"

	"github.com/biter777/countries"
)

// Genres offered by the genre and company dropdowns
var DefaultGenres = []string{
	"Animation", "Comedy", "Documentary", "Drama", "Horror", "Music", "Romance", "Thriller",
}

// Countries offered by the country dropdown
var CountryChoices = []string{
	"United States of America", "United Kingdom", "France", "India", "Germany",
	"Canada", "China", "Spain", "Italy", "Japan",
}

// Rows of the genre/country heatmap
// Countries compared in the genre share donut
var ShareCountries = []string{
	"United States of America", "United Kingdom", "France",
	"India", "Germany", "Canada", "China",
}

var HeatmapCountries = []string{
	"South Korea", "Australia", "Canada", "China", "India",
	"Japan", "Germany", "France", "United Kingdom", "United States of America",
}

// Companies offered by the company dropdown
var CompanyChoices = []string{
	"Universal Pictures", "Warner Bros. Pictures", "Walt Disney Studios", "Sony Pictures",
	"Lionsgate", "20th Century Studios", "DreamWorks Studios", "Marvel Studios", "Pixar Animation",
}

// Features selectable for the country top-10 chart
var Features = map[string]string{
	"revenue":    "Revenue",
	"budget":     "Budget",
	"roi":        "Return on Investment (ROI)",
	"popularity": "Popularity",
}

// Titles that pollute the country and company views
var ExcludedTitles = map[string]struct{}{
	"IPL 2025":          {},
	"TikTok Rizz Party": {},
}

type studio struct {
	Name    string
	Aliases []string
}

// Studios groups production company aliases under one studio, in heatmap row order.
var Studios = []studio{
	{"Universal Pictures", []string{"Universal Pictures", "Universal Studios", "Universal Entertainment"}},
	{"Paramount Pictures", []string{"Paramount Pictures", "Paramount", "Paramount Studios"}},
	{"Warner Bros. Pictures", []string{"Warner Bros.", "Warner Brothers", "Warner Bros. Pictures", "Warner Bros. Entertainment"}},
	{"Walt Disney Studios", []string{"Walt Disney Pictures", "Disney", "Walt Disney Studios", "Walt Disney Productions"}},
	{"Sony Pictures", []string{"Sony Pictures", "Columbia Pictures", "Sony Pictures Entertainment", "TriStar Pictures"}},
	{"Lionsgate", []string{"Lionsgate", "Lions Gate Entertainment", "Lionsgate Films"}},
	{"20th Century Studios", []string{"20th Century Fox", "20th Century Studios", "Twentieth Century Fox"}},
	{"DreamWorks Studios", []string{"DreamWorks", "DreamWorks Pictures", "DreamWorks Studios"}},
	{"Marvel Studios", []string{"Marvel Studios", "Marvel Entertainment", "Marvel"}},
	{"Pixar Animation", []string{"Pixar", "Pixar Animation Studios"}},
}

var studioByAlias = func() map[string]string {
	m := map[string]string{}
	for _, s := range Studios {
		for _, a := range s.Aliases {
			m[a] = s.Name
		}
	}
	return m
}()

// StudioOf maps a production company name to its studio, "" when unknown.
func StudioOf(company string) string {
	return studioByAlias[company]
}

var manualISO3 = map[string]string{
	"United States": "USA", "United States of America": "USA",
	"United Kingdom": "GBR", "UK": "GBR",
	"Russia": "RUS", "Russian Federation": "RUS",
	"South Korea": "KOR", "Korea, Republic of": "KOR",
	"North Korea": "PRK", "Korea, Democratic People's Republic of": "PRK",
	"Czech Republic": "CZE", "Czechia": "CZE",
	"Iran": "IRN", "Iran, Islamic Republic of": "IRN",
	"Venezuela": "VEN", "Venezuela, Bolivarian Republic of": "VEN",
	"Bolivia": "BOL", "Bolivia, Plurinational State of": "BOL",
	"Taiwan": "TWN", "Taiwan, Province of China": "TWN",
	"Moldova": "MDA", "Moldova, Republic of": "MDA",
	"Vietnam": "VNM", "Viet Nam": "VNM",
	"Macedonia": "MKD", "North Macedonia": "MKD",
	"The Former Yugoslav Republic of Macedonia": "MKD",
}

// ISO3 resolves a production country name to its ISO 3166-1 alpha-3 code.
func ISO3(name string) (string, bool) {
	if code, ok := manualISO3[name]; ok {
		return code, true
	}
	c := countries.ByName(name)
	if c == countries.Unknown {
		return "", false
	}
	code := strings.ToUpper(c.Alpha3())
	if len(code) != 3 {
		return "", false
	}
	return code, true
}
