package ingest

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"
)

// Vocabulary mirrored from the production alert API.
var (
	alertTypes    = []string{"MISSING_INVOICE", "WRONG_TAX_RATE", "INVOICE_AMOUNT_MISMATCH", "TAX_JURISDICTION_ERROR"}
	impactLevels  = []string{"low", "medium", "high", "critical"}
	categories    = []string{"Electronics", "Books", "Home", "Games", "Beauty"}
	taxCodes      = []string{"ICMS", "IPI", "PIS", "COFINS", "ISS"}
	jurisdictions = []string{"BR-SP", "BR-RJ", "BR-MG", "BR-RS", "BR-PR"}
	assigneeNames = []string{"Ana", "Bruno", "Carla", "Diego", "Eva", "Felipe"}
)

// SimulatedSource generates alerts deterministically from a seed: the same
// (seed, now) pair always produces the same dataset, so ingestion runs and
// tests are reproducible offline.
type SimulatedSource struct {
	seed int64
	now  time.Time
}

func NewSimulatedSource(seed int64, now time.Time) *SimulatedSource {
	return &SimulatedSource{seed: seed, now: now.UTC()}
}

func (s *SimulatedSource) rng(parts ...interface{}) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d", s.seed)
	for _, p := range parts {
		fmt.Fprintf(h, "|%v", p)
	}
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func (s *SimulatedSource) ListAlertIDs(_ context.Context, status string, limit, offset int) (Page, error) {
	rng := s.rng("list", status)

	total := limit + offset
	if total < 200 {
		total = 200 // the simulated backlog always has at least 200 alerts
	}

	// Advance the generator past earlier pages so IDs stay stable across
	// pagination calls.
	for i := 0; i < offset; i++ {
		rng.Intn(90000)
	}

	end := offset + limit
	if end > total {
		end = total
	}
	ids := make([]string, 0, limit)
	for i := offset; i < end; i++ {
		ids = append(ids, fmt.Sprintf("ALRT-%05d-%d", 10000+rng.Intn(90000), i))
	}

	return Page{Status: status, Count: len(ids), Total: total, Data: ids}, nil
}

func (s *SimulatedSource) GetAlertDetail(_ context.Context, alertID string) (map[string]interface{}, error) {
	rng := s.rng("detail", alertID)

	created := s.now.
		AddDate(0, 0, -rng.Intn(121)).
		Add(-time.Duration(rng.Intn(24)) * time.Hour)

	isClosed := rng.Float64() < 0.35
	status := "open"
	var resolution interface{}
	if isClosed {
		status = "closed"
		resolution = created.AddDate(0, 0, 1+rng.Intn(30)).Format(time.RFC3339)
	} else if rng.Float64() < 0.5 {
		status = "in_progress"
	}

	var assigned interface{}
	if rng.Float64() >= 0.10 {
		assigned = map[string]interface{}{
			"id":   fmt.Sprintf("USR-%04d", 1000+rng.Intn(9000)),
			"name": assigneeNames[rng.Intn(len(assigneeNames))],
		}
	}

	exposure := interface{}(float64(rng.Intn(5000000)) / 100.0)
	if rng.Float64() < 0.05 {
		// Dirty the type on purpose: the real API occasionally returns
		// amounts as strings, and normalization has to cope.
		exposure = fmt.Sprintf("%.2f", exposure)
	}

	hasInvoice := rng.Float64() < 0.7
	var orderCode, invoiceNo interface{}
	if rng.Float64() >= 0.2 {
		orderCode = fmt.Sprintf("O%05d", 10000+rng.Intn(90000))
	}
	if hasInvoice && rng.Float64() < 0.85 {
		invoiceNo = fmt.Sprintf("INV-%05d", 10000+rng.Intn(90000))
	}

	return map[string]interface{}{
		"alert_id":           alertID,
		"type_of_alert":      alertTypes[rng.Intn(len(alertTypes))],
		"status":             status,
		"assigned_to":        assigned,
		"creation_date":      created.Format(time.RFC3339),
		"resolution_date":    resolution,
		"impact_level":       weightedImpact(rng),
		"sla_hours":          []int{24, 48, 72, 168}[rng.Intn(4)],
		"jurisdiction":       jurisdictions[rng.Intn(len(jurisdictions))],
		"category":           categories[rng.Intn(len(categories))],
		"tax_code":           taxCodes[rng.Intn(len(taxCodes))],
		"monetary_exposure":  exposure,
		"has_invoice_linked": hasInvoice,
		"order_id":           orderCode,
		"invoice_id":         invoiceNo,
	}, nil
}

// weightedImpact draws an impact level with weights 4:3:2:1 — most alerts
// are low impact, critical ones are rare.
func weightedImpact(rng *rand.Rand) string {
	switch n := rng.Intn(10); {
	case n < 4:
		return impactLevels[0]
	case n < 7:
		return impactLevels[1]
	case n < 9:
		return impactLevels[2]
	default:
		return impactLevels[3]
	}
}
