// Package ai provides recovery of structured JSON from raw model output.
package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/domain"
)

// Models rarely honor "return only JSON": output arrives wrapped in markdown
// fences or prose. ExtractJSON peels that wrapping off, and nothing more.
// Malformed JSON after bracket slicing is a reportable failure, not something
// to repair.

var fencedBlock = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// ExtractJSON returns the first JSON value embedded in text.
//
// Ordered attempts, first success wins:
//  1. contents of a fenced code block (``` with optional json tag)
//  2. the slice from the first '{' to the last '}'
//  3. the slice from the first '[' to the last ']'
//
// When no attempt parses, the error wraps domain.ErrSchemaInvalid.
func ExtractJSON(text string) (json.RawMessage, error) {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		if raw, ok := tryParse(m[1]); ok {
			return raw, nil
		}
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		if raw, ok := tryParse(text[start : end+1]); ok {
			return raw, nil
		}
	}
	if start, end := strings.Index(text, "["), strings.LastIndex(text, "]"); start >= 0 && end > start {
		if raw, ok := tryParse(text[start : end+1]); ok {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("%w: no JSON found in model output", domain.ErrSchemaInvalid)
}

// ExtractInto recovers JSON from text and unmarshals it into v.
func ExtractInto(text string, v any) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)
	}
	return nil
}

func tryParse(s string) (json.RawMessage, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return json.RawMessage(s), true
}
