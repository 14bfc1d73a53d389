package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// QuestionSchema is the body accepted by the ask and classify endpoints. An
// empty question is allowed; it classifies as out of scope.
const QuestionSchema = `{
	"type": "object",
	"required": ["question"],
	"properties": {
		"question": {"type": "string", "maxLength": 1000}
	}
}`

var questionLoader = gojsonschema.NewStringLoader(QuestionSchema)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error joins every failure into one line for logs and error details.
func (r *ValidationResult) Error() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// ValidateQuestion checks a raw request body against QuestionSchema.
func ValidateQuestion(body []byte) *ValidationResult {
	return validate(questionLoader, body)
}

// validateBytes checks a raw JSON document against an arbitrary schema.
func validateBytes(schema string, body []byte) *ValidationResult {
	return validate(gojsonschema.NewStringLoader(schema), body)
}

func validate(schema gojsonschema.JSONLoader, body []byte) *ValidationResult {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: "body is not valid JSON",
				Code:    "INVALID_JSON",
			}},
		}
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    errorCode(desc.Type()),
		})
	}
	return out
}

func errorCode(kind string) string {
	switch kind {
	case "required":
		return "REQUIRED_FIELD_MISSING"
	case "invalid_type":
		return "INVALID_TYPE"
	case "string_gte", "string_lte":
		return "INVALID_LENGTH"
	default:
		return strings.ToUpper(kind)
	}
}
