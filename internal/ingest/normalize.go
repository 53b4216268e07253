package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
)

// NormalizeAlert flattens a raw API payload into the storage model.
// Upstream schema drift is common: amounts arrive as numbers or strings,
// the assignee is a nested object, half the fields are optional. Anything
// unparseable becomes a null/zero value rather than dropping the alert;
// only a missing alert_id or creation_date is a hard error.
func NormalizeAlert(payload map[string]interface{}) (model.ComplianceAlert, error) {
	alertID := asString(payload["alert_id"])
	if alertID == "" {
		return model.ComplianceAlert{}, fmt.Errorf("payload has no alert_id")
	}

	created, err := asTime(payload["creation_date"])
	if err != nil || created == nil {
		return model.ComplianceAlert{}, fmt.Errorf("alert %s has no valid creation_date", alertID)
	}
	resolved, _ := asTime(payload["resolution_date"])

	assignedName := ""
	if assigned, ok := payload["assigned_to"].(map[string]interface{}); ok {
		assignedName = asString(assigned["name"])
	}

	return model.ComplianceAlert{
		AlertID:          alertID,
		AlertType:        asString(payload["type_of_alert"]),
		Status:           asString(payload["status"]),
		AssignedToName:   assignedName,
		CreationDate:     *created,
		ResolutionDate:   resolved,
		ImpactLevel:      asString(payload["impact_level"]),
		SLAHours:         asInt(payload["sla_hours"]),
		Jurisdiction:     asString(payload["jurisdiction"]),
		Category:         asString(payload["category"]),
		TaxCode:          asString(payload["tax_code"]),
		MonetaryExposure: asDecimal(payload["monetary_exposure"]),
		HasInvoiceLinked: asBool(payload["has_invoice_linked"]),
		OrderCode:        asString(payload["order_id"]),
		InvoiceNo:        asString(payload["invoice_id"]),
	}, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	default:
		return 0
	}
}

// asDecimal parses a monetary value that may arrive as a JSON number, a
// numeric string, or garbage. Invalid input yields a null decimal, not 0 —
// an unknown exposure must not read as "no exposure".
func asDecimal(v interface{}) decimal.NullDecimal {
	switch n := v.(type) {
	case float64:
		return decimal.NullDecimal{Decimal: decimal.NewFromFloat(n), Valid: true}
	case int:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(int64(n)), Valid: true}
	case json.Number:
		if d, err := decimal.NewFromString(n.String()); err == nil {
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
	case string:
		if d, err := decimal.NewFromString(n); err == nil {
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
	return decimal.NullDecimal{}
}

func asTime(v interface{}) (*time.Time, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
