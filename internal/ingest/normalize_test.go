package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAlertFullPayload(t *testing.T) {
	payload := map[string]interface{}{
		"alert_id":      "ALRT-00001",
		"type_of_alert": "WRONG_TAX_RATE",
		"status":        "open",
		"assigned_to": map[string]interface{}{
			"id":   "USR-1001",
			"name": "Ana",
		},
		"creation_date":      "2025-06-01T10:00:00Z",
		"resolution_date":    "2025-06-05T09:00:00Z",
		"impact_level":       "high",
		"sla_hours":          float64(48),
		"jurisdiction":       "BR-SP",
		"category":           "Electronics",
		"tax_code":           "ICMS",
		"monetary_exposure":  float64(1234.56),
		"has_invoice_linked": true,
		"order_id":           "O12345",
		"invoice_id":         "INV-12345",
	}

	alert, err := NormalizeAlert(payload)
	require.NoError(t, err)

	assert.Equal(t, "ALRT-00001", alert.AlertID)
	assert.Equal(t, "Ana", alert.AssignedToName)
	assert.Equal(t, 48, alert.SLAHours)
	require.NotNil(t, alert.ResolutionDate)
	assert.True(t, alert.MonetaryExposure.Valid)
	assert.Equal(t, "1234.56", alert.MonetaryExposure.Decimal.String())
	assert.True(t, alert.HasInvoiceLinked)
	assert.Equal(t, "O12345", alert.OrderCode)
}

func TestNormalizeAlertStringExposure(t *testing.T) {
	alert, err := NormalizeAlert(map[string]interface{}{
		"alert_id":          "ALRT-00002",
		"creation_date":     "2025-06-01T10:00:00Z",
		"monetary_exposure": "987.65",
	})
	require.NoError(t, err)
	assert.True(t, alert.MonetaryExposure.Valid)
	assert.Equal(t, "987.65", alert.MonetaryExposure.Decimal.String())
}

func TestNormalizeAlertInvalidExposureIsNull(t *testing.T) {
	alert, err := NormalizeAlert(map[string]interface{}{
		"alert_id":          "ALRT-00003",
		"creation_date":     "2025-06-01T10:00:00Z",
		"monetary_exposure": "not-a-number",
	})
	require.NoError(t, err)
	// unknown exposure must not read as zero exposure
	assert.False(t, alert.MonetaryExposure.Valid)
}

func TestNormalizeAlertSparsePayload(t *testing.T) {
	alert, err := NormalizeAlert(map[string]interface{}{
		"alert_id":      "ALRT-00004",
		"creation_date": "2025-06-01T10:00:00Z",
	})
	require.NoError(t, err)
	assert.Empty(t, alert.AssignedToName)
	assert.Nil(t, alert.ResolutionDate)
	assert.False(t, alert.MonetaryExposure.Valid)
	assert.False(t, alert.HasInvoiceLinked)
}

func TestNormalizeAlertRejectsMissingIdentity(t *testing.T) {
	_, err := NormalizeAlert(map[string]interface{}{
		"creation_date": "2025-06-01T10:00:00Z",
	})
	assert.Error(t, err)

	_, err = NormalizeAlert(map[string]interface{}{
		"alert_id": "ALRT-00005",
	})
	assert.Error(t, err)

	_, err = NormalizeAlert(map[string]interface{}{
		"alert_id":      "ALRT-00006",
		"creation_date": "01/06/2025",
	})
	assert.Error(t, err)
}
