package ingest

import (
	"math"
	"sort"

	"backend/internal/model"
)

// Summary is the descriptive-statistics view over a batch of alerts —
// distributions plus exposure mean and p95. Exposures use float64: this is
// an exploratory summary, not money of record.
type Summary struct {
	TotalAlerts        int            `json:"total_alerts"`
	StatusDistribution map[string]int `json:"status_distribution"`
	TypeDistribution   map[string]int `json:"type_distribution"`
	ImpactDistribution map[string]int `json:"impact_distribution"`
	AssignedPresent    int            `json:"assigned_present"`
	AssignedMissing    int            `json:"assigned_missing"`
	UnresolvedCount    int            `json:"unresolved_count"`
	ExposureMean       float64        `json:"monetary_exposure_mean"`
	ExposureP95        float64        `json:"monetary_exposure_p95"`
}

// Summarize computes the summary over a batch. Alerts with a null exposure
// count toward the distributions but are excluded from the exposure stats.
func Summarize(alerts []model.ComplianceAlert) Summary {
	s := Summary{
		TotalAlerts:        len(alerts),
		StatusDistribution: make(map[string]int),
		TypeDistribution:   make(map[string]int),
		ImpactDistribution: make(map[string]int),
	}

	var exposures []float64
	for _, a := range alerts {
		s.StatusDistribution[a.Status]++
		s.TypeDistribution[a.AlertType]++
		s.ImpactDistribution[a.ImpactLevel]++
		if a.AssignedToName != "" {
			s.AssignedPresent++
		} else {
			s.AssignedMissing++
		}
		if a.ResolutionDate == nil {
			s.UnresolvedCount++
		}
		if a.MonetaryExposure.Valid {
			exposures = append(exposures, a.MonetaryExposure.Decimal.InexactFloat64())
		}
	}

	if len(exposures) > 0 {
		sum := 0.0
		for _, e := range exposures {
			sum += e
		}
		s.ExposureMean = math.Round(sum/float64(len(exposures))*100) / 100
		s.ExposureP95 = percentile(exposures, 95)
	}

	return s
}

// percentile computes the p-th percentile with linear interpolation
// between the two nearest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	xs := append([]float64(nil), values...)
	sort.Float64s(xs)

	k := float64(len(xs)-1) * (p / 100)
	f := math.Floor(k)
	c := math.Ceil(k)
	if f == c {
		return xs[int(k)]
	}
	return xs[int(f)]*(c-k) + xs[int(c)]*(k-f)
}
