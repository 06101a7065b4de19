// -----------------------------------------------------------------------
// Verification Output Parsing - extracts and schema-validates the
// verifier agent's structured JSON result
// -----------------------------------------------------------------------

package analyzer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/argentum/internal/models"
	"github.com/xeipuuv/gojsonschema"
)

// validationResultSchema constrains the verifier's JSON output to the
// documented shape. Unknown keys are rejected so drift in agent output is
// caught immediately rather than silently dropped.
var validationResultSchema = map[string]interface{}{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"is_valid_financial_document", "document_type", "detected_sections", "summary"},
	"properties": map[string]interface{}{
		"is_valid_financial_document": map[string]interface{}{"type": "boolean"},
		"document_type":               map[string]interface{}{"type": "string"},
		"detected_sections": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"summary": map[string]interface{}{"type": "string"},
	},
}

var jsonBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ParseValidationResult extracts the JSON validation result from the
// verifier agent's response and validates it against the expected schema.
func ParseValidationResult(response string) (*models.ValidationResult, error) {
	raw := extractJSONObject(response)
	if raw == "" {
		return nil, fmt.Errorf("verifier response contains no JSON object")
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("failed to parse verifier JSON: %w", err)
	}

	schemaLoader := gojsonschema.NewGoLoader(validationResultSchema)
	documentLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("verifier output failed schema validation: %v", errs)
	}

	var validation models.ValidationResult
	if err := json.Unmarshal([]byte(raw), &validation); err != nil {
		return nil, fmt.Errorf("failed to decode validation result: %w", err)
	}
	if validation.DetectedSections == nil {
		validation.DetectedSections = []string{}
	}
	return &validation, nil
}

// extractJSONObject finds the JSON object in an agent response, preferring a
// fenced code block, then falling back to the outermost braces.
func extractJSONObject(response string) string {
	if matches := jsonBlockPattern.FindStringSubmatch(response); len(matches) > 1 {
		return matches[1]
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		return response[start : end+1]
	}
	return ""
}
