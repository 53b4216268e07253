package service

import (
	"testing"

	"backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumRow(key, tax, base string) repository.GroupTaxSumRow {
	return repository.GroupTaxSumRow{
		GroupKey: key,
		TaxSum:   decimal.RequireFromString(tax),
		BaseSum:  decimal.RequireFromString(base),
	}
}

func TestWeightedRate(t *testing.T) {
	rate := weightedRate(decimal.RequireFromString("18"), decimal.RequireFromString("100"))
	require.NotNil(t, rate)
	assert.Equal(t, "0.18", rate.String())

	// zero base is undefined, never zero or a division error
	assert.Nil(t, weightedRate(decimal.RequireFromString("18"), decimal.Zero))
}

func TestWeightedRateIsRatioOfSums(t *testing.T) {
	// two lines: 10/100 and 30/100 — the weighted rate is 40/200 = 0.2,
	// not the 0.2 mean by accident: change weights to see the difference
	rate := weightedRate(decimal.RequireFromString("40"), decimal.RequireFromString("200"))
	require.NotNil(t, rate)
	assert.Equal(t, "0.2", rate.String())

	// heavy line dominates: 10/100 and 3/1000 → 13/1100
	rate = weightedRate(decimal.RequireFromString("13"), decimal.RequireFromString("1100"))
	require.NotNil(t, rate)
	assert.Equal(t, "0.01181818", rate.String())
}

func TestCompareRatesOuterMerge(t *testing.T) {
	current := []repository.GroupTaxSumRow{
		sumRow("Electronics", "20", "100"),
		sumRow("Books", "5", "100"),
	}
	baseline := []repository.GroupTaxSumRow{
		sumRow("Electronics", "18", "100"),
		sumRow("Home", "12", "100"),
	}

	comparisons := compareRates(current, baseline)
	require.Len(t, comparisons, 3)

	byKey := map[string]RateComparison{}
	for _, c := range comparisons {
		byKey[c.GroupKey] = c
	}

	elec := byKey["Electronics"]
	require.NotNil(t, elec.Diff)
	assert.Equal(t, "0.02", elec.Diff.String())
	require.NotNil(t, elec.PctChange)
	assert.True(t, elec.PctChange.Sub(decimal.RequireFromString("11.11111")).Abs().LessThan(decimal.RequireFromString("0.001")))

	// present only in current: baseline and deviation undefined
	books := byKey["Books"]
	assert.NotNil(t, books.CurrentRate)
	assert.Nil(t, books.BaselineRate)
	assert.Nil(t, books.Diff)

	// present only in baseline
	home := byKey["Home"]
	assert.Nil(t, home.CurrentRate)
	assert.NotNil(t, home.BaselineRate)
	assert.Nil(t, home.Diff)
}

func TestCompareRatesZeroBaseStaysUndefined(t *testing.T) {
	current := []repository.GroupTaxSumRow{sumRow("Games", "10", "0")}
	baseline := []repository.GroupTaxSumRow{sumRow("Games", "8", "100")}

	comparisons := compareRates(current, baseline)
	require.Len(t, comparisons, 1)
	assert.Nil(t, comparisons[0].CurrentRate)
	assert.Nil(t, comparisons[0].Diff)
	assert.Nil(t, comparisons[0].PctChange)
}

func TestRankByDeviation(t *testing.T) {
	comparisons := compareRates(
		[]repository.GroupTaxSumRow{
			sumRow("A", "10", "100"), // baseline 0.10, diff 0
			sumRow("B", "25", "100"), // baseline 0.10, diff +0.15
			sumRow("C", "2", "100"),  // baseline 0.10, diff -0.08
			sumRow("D", "9", "100"),  // no baseline, diff undefined
		},
		[]repository.GroupTaxSumRow{
			sumRow("A", "10", "100"),
			sumRow("B", "10", "100"),
			sumRow("C", "10", "100"),
		},
	)
	rankByDeviation(comparisons)

	keys := make([]string, 0, len(comparisons))
	for _, c := range comparisons {
		keys = append(keys, c.GroupKey)
	}
	// |diff| descending, undefined deviations last
	assert.Equal(t, []string{"B", "C", "A", "D"}, keys)
}
