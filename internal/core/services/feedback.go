package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

// ParseRequirementList finds the first balanced JSON array in text and
// decodes it as requirements. Elements that fail validation are dropped;
// the number dropped is returned alongside the valid ones. When no array
// can be decoded the error wraps domain.ErrResponseShape.
//
// Dropping is not a pure filter: a non-empty array whose elements are all
// invalid also fails with domain.ErrResponseShape instead of yielding an
// empty list, so a garbled reply cannot wipe the requirements. An empty
// array is accepted and yields no requirements.
func ParseRequirementList(text string) ([]domain.Requirement, int, error) {
	raw, ok := firstJSONArray(cleanJSONResponse(text))
	if !ok {
		raw, ok = firstJSONArray(text)
	}
	if !ok {
		return nil, 0, fmt.Errorf("%w: no JSON array found", domain.ErrResponseShape)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrResponseShape, err)
	}

	valid := make([]domain.Requirement, 0, len(elements))
	dropped := 0
	for _, el := range elements {
		r, ok := decodeRequirement(el)
		if !ok {
			dropped++
			continue
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 && dropped > 0 {
		return nil, dropped, fmt.Errorf("%w: no valid requirements in array", domain.ErrResponseShape)
	}
	return valid, dropped, nil
}

// decodeRequirement accepts numeric IDs, which models often emit.
func decodeRequirement(raw json.RawMessage) (domain.Requirement, bool) {
	var el struct {
		ID          json.RawMessage `json:"id"`
		Type        string          `json:"type"`
		Description string          `json:"description"`
		Priority    string          `json:"priority"`
	}
	if err := json.Unmarshal(raw, &el); err != nil {
		return domain.Requirement{}, false
	}

	r := domain.Requirement{
		ID:          idString(el.ID),
		Type:        domain.RequirementType(strings.ToLower(strings.TrimSpace(el.Type))),
		Description: strings.TrimSpace(el.Description),
		Priority:    domain.Priority(strings.ToLower(strings.TrimSpace(el.Priority))),
	}
	if r.Validate() != nil {
		return domain.Requirement{}, false
	}
	return r, true
}

func idString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// cleanJSONResponse removes markdown code fences from a model response.
func cleanJSONResponse(resp string) string {
	resp = strings.TrimSpace(resp)
	if start := strings.Index(resp, "```"); start >= 0 {
		body := resp[start+3:]
		body = strings.TrimPrefix(body, "json")
		if end := strings.Index(body, "```"); end >= 0 {
			return strings.TrimSpace(body[:end])
		}
		return strings.TrimSpace(body)
	}
	return resp
}

// firstJSONArray returns the first bracket-balanced substring starting at
// a '[' that decodes as a JSON array. Brackets inside strings are ignored.
func firstJSONArray(text string) (string, bool) {
	for start := strings.IndexByte(text, '['); start >= 0; {
		if end := matchBracket(text, start); end > start {
			candidate := text[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, true
			}
		}
		next := strings.IndexByte(text[start+1:], '[')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// matchBracket returns the index of the ']' closing the '[' at start, or -1.
func matchBracket(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
