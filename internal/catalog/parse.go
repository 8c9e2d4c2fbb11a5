package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/cookiz/internal/game"
)

// ValidationError lists every problem found in a game document.
type ValidationError struct {
	Source   string // file path or "<input>"
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid game %s: %s", e.Source, strings.Join(e.Problems, "; "))
}

// ParseDefinition decodes a YAML (or JSON) game document, validates it
// against the game schema and the engine's own rules, and converts it.
func ParseDefinition(data []byte) (game.Definition, error) {
	return parseSource("<input>", data)
}

func parseSource(source string, data []byte) (game.Definition, error) {
	doc, err := parseDocument(source, data)
	if err != nil {
		return game.Definition{}, err
	}
	def, err := doc.Definition()
	if err != nil {
		return game.Definition{}, &ValidationError{Source: source, Problems: []string{err.Error()}}
	}
	return def, nil
}

// ParseDocument decodes and schema-checks a game document without
// converting it.
func ParseDocument(data []byte) (Document, error) {
	return parseDocument("<input>", data)
}

func parseDocument(source string, data []byte) (Document, error) {
	invalid := func(problems ...string) (Document, error) {
		return Document{}, &ValidationError{Source: source, Problems: problems}
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return invalid("decode: " + err.Error())
	}
	if raw == nil {
		return invalid("empty document")
	}

	asJSON, err := json.Marshal(raw)
	if err != nil {
		return invalid("document is not JSON-compatible: " + err.Error())
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(asJSON))
	if err != nil {
		return invalid("decode: " + err.Error())
	}

	sch, err := compiledSchema()
	if err != nil {
		return Document{}, fmt.Errorf("game schema: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return invalid(schemaProblems(err)...)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return invalid("decode: " + err.Error())
	}
	return doc, nil
}

// schemaProblems flattens a schema validation error into one line per
// failing location.
func schemaProblems(err error) []string {
	var out []string
	for _, line := range strings.Split(err.Error(), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		out = append(out, strings.TrimPrefix(line, "- "))
	}
	if len(out) == 0 {
		out = append(out, err.Error())
	}
	return out
}

// MarshalDefinition renders def as a YAML game document.
func MarshalDefinition(def game.Definition) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(FromDefinition(def)); err != nil {
		return nil, fmt.Errorf("encode game %s: %w", def.ID, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode game %s: %w", def.ID, err)
	}
	return buf.Bytes(), nil
}
