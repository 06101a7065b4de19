package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidationResultFencedBlock(t *testing.T) {
	response := "Here is my validation:\n```json\n" +
		`{"is_valid_financial_document": true, "document_type": "Quarterly Earnings Report", "detected_sections": ["Income Statement", "Balance Sheet"], "summary": "Q2 earnings for Acme Corp."}` +
		"\n```\nDone."

	result, err := ParseValidationResult(response)
	require.NoError(t, err)
	assert.True(t, result.IsValidFinancialDocument)
	assert.Equal(t, "Quarterly Earnings Report", result.DocumentType)
	assert.Equal(t, []string{"Income Statement", "Balance Sheet"}, result.DetectedSections)
	assert.Equal(t, "Q2 earnings for Acme Corp.", result.Summary)
}

func TestParseValidationResultBareJSON(t *testing.T) {
	response := `{"is_valid_financial_document": false, "document_type": "Unknown", "detected_sections": [], "summary": "Not a financial document."}`

	result, err := ParseValidationResult(response)
	require.NoError(t, err)
	assert.False(t, result.IsValidFinancialDocument)
	assert.Equal(t, "Unknown", result.DocumentType)
	assert.Empty(t, result.DetectedSections)
}

func TestParseValidationResultMissingKey(t *testing.T) {
	response := `{"is_valid_financial_document": true, "document_type": "Annual Report", "summary": "ok"}`

	_, err := ParseValidationResult(response)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation")
}

func TestParseValidationResultUnknownKey(t *testing.T) {
	response := `{"is_valid_financial_document": true, "document_type": "Annual Report", "detected_sections": [], "summary": "ok", "confidence": 0.9}`

	_, err := ParseValidationResult(response)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation")
}

func TestParseValidationResultWrongType(t *testing.T) {
	response := `{"is_valid_financial_document": "yes", "document_type": "Annual Report", "detected_sections": [], "summary": "ok"}`

	_, err := ParseValidationResult(response)
	require.Error(t, err)
}

func TestParseValidationResultNoJSON(t *testing.T) {
	_, err := ParseValidationResult("This document looks fine to me.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no JSON object")
}
