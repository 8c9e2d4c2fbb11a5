package llm

import (
	"bytes"
	"encoding/json"
	"errors"
)

// validateResponse requires well-formed JSON and then runs the schema's
// check, if any.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return &ErrInvalidResponse{Content: raw, Err: errors.New("empty response")}
	}
	if !json.Valid(trimmed) {
		return &ErrInvalidResponse{Content: raw, Err: errors.New("response is not valid JSON")}
	}
	if schema.Check == nil {
		return nil
	}
	if err := schema.Check(trimmed); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err, Rejected: true}
	}
	return nil
}
