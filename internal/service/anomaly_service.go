package service

import (
	"context"
	"sort"
	"time"

	"backend/internal/repository"

	"github.com/shopspring/decimal"
)

// RateComparison compares a group's weighted tax rate in the current
// window against the trailing baseline window. A nil rate means undefined
// (zero taxable base or the group absent from that window) and propagates
// as nil through Diff and PctChange — it is never coerced to zero, which
// would fabricate or understate a deviation.
type RateComparison struct {
	GroupKey     string           `json:"group_key"`
	CurrentRate  *decimal.Decimal `json:"current_rate"`
	BaselineRate *decimal.Decimal `json:"baseline_rate"`
	Diff         *decimal.Decimal `json:"diff"`
	PctChange    *decimal.Decimal `json:"pct_change"`
}

type AnomalyService interface {
	// DetectRateAnomalies computes Σtax/Σbase per group for two disjoint
	// windows and ranks groups by absolute rate deviation. The baseline is
	// a single trailing aggregate over the baseline window. topK <= 0
	// means no truncation.
	DetectRateAnomalies(ctx context.Context, groupBy string, curStart, curEnd, baseStart, baseEnd time.Time, topK int) ([]RateComparison, error)
}

type anomalyService struct {
	repo repository.AnomalyRepository
}

func NewAnomalyService(repo repository.AnomalyRepository) AnomalyService {
	return &anomalyService{repo: repo}
}

func (s *anomalyService) DetectRateAnomalies(ctx context.Context, groupBy string, curStart, curEnd, baseStart, baseEnd time.Time, topK int) ([]RateComparison, error) {
	current, err := s.repo.GroupTaxSums(ctx, groupBy, curStart, curEnd)
	if err != nil {
		return nil, err
	}
	baseline, err := s.repo.GroupTaxSums(ctx, groupBy, baseStart, baseEnd)
	if err != nil {
		return nil, err
	}

	comparisons := compareRates(current, baseline)
	rankByDeviation(comparisons)

	if topK > 0 && len(comparisons) > topK {
		comparisons = comparisons[:topK]
	}
	return comparisons, nil
}

// weightedRate divides summed tax by summed base. The ratio of sums, not
// an average of per-line rates: a mean would weight every line equally
// regardless of its economic size. Zero base yields nil (undefined).
func weightedRate(taxSum, baseSum decimal.Decimal) *decimal.Decimal {
	if baseSum.IsZero() {
		return nil
	}
	rate := taxSum.DivRound(baseSum, 8)
	return &rate
}

// compareRates full-outer-merges the two periods: a group present in only
// one of them still appears, with the missing side undefined.
func compareRates(current, baseline []repository.GroupTaxSumRow) []RateComparison {
	currentRates := make(map[string]*decimal.Decimal, len(current))
	for _, row := range current {
		currentRates[row.GroupKey] = weightedRate(row.TaxSum, row.BaseSum)
	}
	baselineRates := make(map[string]*decimal.Decimal, len(baseline))
	for _, row := range baseline {
		baselineRates[row.GroupKey] = weightedRate(row.TaxSum, row.BaseSum)
	}

	keys := make(map[string]bool, len(currentRates)+len(baselineRates))
	for k := range currentRates {
		keys[k] = true
	}
	for k := range baselineRates {
		keys[k] = true
	}

	comparisons := make([]RateComparison, 0, len(keys))
	for key := range keys {
		cur := currentRates[key]
		base := baselineRates[key]

		var diff, pct *decimal.Decimal
		if cur != nil && base != nil {
			d := cur.Sub(*base)
			diff = &d
			if !base.IsZero() {
				p := d.DivRound(*base, 8).Mul(decimal.NewFromInt(100))
				pct = &p
			}
		}

		comparisons = append(comparisons, RateComparison{
			GroupKey:     key,
			CurrentRate:  cur,
			BaselineRate: base,
			Diff:         diff,
			PctChange:    pct,
		})
	}
	return comparisons
}

// rankByDeviation orders by |diff| descending. Groups whose deviation is
// undefined sort after all defined ones; group key ascending breaks ties
// so the ranking is deterministic.
func rankByDeviation(comparisons []RateComparison) {
	sort.Slice(comparisons, func(i, j int) bool {
		di, dj := comparisons[i].Diff, comparisons[j].Diff
		switch {
		case di != nil && dj != nil:
			if c := di.Abs().Cmp(dj.Abs()); c != 0 {
				return c > 0
			}
		case di != nil:
			return true
		case dj != nil:
			return false
		}
		return comparisons[i].GroupKey < comparisons[j].GroupKey
	})
}
