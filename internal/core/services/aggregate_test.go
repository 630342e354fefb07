package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterTop(t *testing.T) {
	c := counter{"b": 2, "a": 2, "c": 5, "d": 1}

	assert.Equal(t, []labelCount{{"c", 5}, {"a", 2}, {"b", 2}}, c.top(3))
	assert.Len(t, c.top(0), 4)
	assert.Equal(t, 10, c.total())
}

func TestPearson(t *testing.T) {
	assert.InDelta(t, 1.0, pearson([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-12)
	assert.InDelta(t, -1.0, pearson([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
	assert.Equal(t, 0.0, pearson([]float64{1, 1, 1}, []float64{1, 2, 3}))
	assert.Equal(t, 0.0, pearson([]float64{1}, []float64{1}))
}

func TestFiveYearPeriods(t *testing.T) {
	periods := fiveYearPeriods(1980, 2020)

	assert.Len(t, periods, 8)
	assert.Equal(t, "1980-1984", periods[0].label())
	assert.Equal(t, "2015-2019", periods[7].label())
	assert.Equal(t, 0, periodIndex(periods, 1984))
	assert.Equal(t, 1, periodIndex(periods, 1985))
	assert.Equal(t, -1, periodIndex(periods, 2020))
	assert.Equal(t, -1, periodIndex(periods, 1979))
}

func TestCheckLimit(t *testing.T) {
	n, err := checkLimit(0, 7)
	assert.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = checkLimit(3, 7)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = checkLimit(maxLimit+1, 7)
	assert.Error(t, err)
}

func TestToSlicesPercentages(t *testing.T) {
	slices := toSlices([]labelCount{{"a", 1}, {"b", 3}})

	assert.Equal(t, 25.0, slices[0].Percent)
	assert.Equal(t, 75.0, slices[1].Percent)
}

func TestStudioOf(t *testing.T) {
	assert.Equal(t, "Sony Pictures", StudioOf("Columbia Pictures"))
	assert.Equal(t, "20th Century Studios", StudioOf("Twentieth Century Fox"))
	assert.Equal(t, "", StudioOf("A24"))
}
