package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

type ldThing struct {
	Name *string `json:"name"`
}

// jsonKind returns the first significant byte of raw, or 0 when empty.
func jsonKind(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// decodeNamedThings decodes a schema.org Person (or list of them) into their
// names. Shape is decided by looking at the value before decoding.
func decodeNamedThings(field string, raw json.RawMessage) ([]string, *ExtractionError) {
	switch jsonKind(raw) {
	case '{':
		var one ldThing
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, decodeError(field, err)
		}
		if one.Name == nil {
			return nil, missingField(field + ".name")
		}
		return []string{cleanText(*one.Name)}, nil
	case '[':
		var many []ldThing
		if err := json.Unmarshal(raw, &many); err != nil {
			return nil, decodeError(field, err)
		}
		values := make([]string, 0, len(many))
		for i, thing := range many {
			if thing.Name == nil {
				return nil, missingField(fmt.Sprintf("%s[%d].name", field, i))
			}
			values = append(values, cleanText(*thing.Name))
		}
		return values, nil
	default:
		return nil, unexpectedShape(field, "object or list of objects", raw)
	}
}

// decodeTexts decodes a plain string or a list of strings. Values are kept
// exactly as the page wrote them.
func decodeTexts(field string, raw json.RawMessage) ([]string, *ExtractionError) {
	switch jsonKind(raw) {
	case '"':
		var one string
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, decodeError(field, err)
		}
		return []string{one}, nil
	case '[':
		var many []string
		if err := json.Unmarshal(raw, &many); err != nil {
			return nil, decodeError(field, err)
		}
		return many, nil
	default:
		return nil, unexpectedShape(field, "string or list of strings", raw)
	}
}

func decodeString(field string, raw json.RawMessage) (string, *ExtractionError) {
	if jsonKind(raw) != '"' {
		return "", unexpectedShape(field, "string", raw)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", decodeError(field, err)
	}
	return strings.TrimSpace(s), nil
}

// decodeNumber accepts a JSON number or a numeric string.
func decodeNumber(field string, raw json.RawMessage) (float64, *ExtractionError) {
	kind := jsonKind(raw)
	switch {
	case kind == '"':
		s, err := decodeString(field, raw)
		if err != nil {
			return 0, err
		}
		f, parseErr := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if parseErr != nil {
			return 0, &ExtractionError{
				Message: fmt.Sprintf("%q is not a number", s),
				Cause:   ErrCauseInvalidValue,
				Field:   field,
			}
		}
		return f, nil
	case kind == '-' || (kind >= '0' && kind <= '9'):
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return 0, decodeError(field, err)
		}
		return f, nil
	default:
		return 0, unexpectedShape(field, "number", raw)
	}
}

// cleanText unescapes leftover HTML entities and normalizes to NFC so that
// names compare equal regardless of how the page encoded them.
func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(html.UnescapeString(s)))
}

func decodeError(field string, err error) *ExtractionError {
	return &ExtractionError{
		Message: err.Error(),
		Cause:   ErrCauseDecodeFailure,
		Field:   field,
	}
}

func missingField(field string) *ExtractionError {
	return &ExtractionError{
		Message: "required key is absent",
		Cause:   ErrCauseMissingField,
		Field:   field,
	}
}

// maxShapeSample caps, in runes, how much of an unexpected value is quoted in
// an error message.
const maxShapeSample = 40

func unexpectedShape(field string, want string, raw json.RawMessage) *ExtractionError {
	got := []rune(string(bytes.TrimSpace(raw)))
	if len(got) > maxShapeSample {
		got = append(got[:maxShapeSample], []rune("...")...)
	}
	return &ExtractionError{
		Message: fmt.Sprintf("expected %s, got %s", want, string(got)),
		Cause:   ErrCauseUnexpectedShape,
		Field:   field,
	}
}
