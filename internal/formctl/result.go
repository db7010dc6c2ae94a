package formctl

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
)

// ErrInvalidJSON is returned by DecodeResult when a success body is not usable JSON.
var ErrInvalidJSON = errors.New("invalid JSON response")

// Count is a vote count as reported by the server. Text is what gets displayed and
// Value is what gets compared; a value that is not numeric compares as NaN.
type Count struct {
	Text  string
	Value float64
}

func zeroCount() Count { return Count{Text: "0", Value: 0} }

// IsZero reports whether the count is numerically zero.
func (c Count) IsZero() bool { return c.Value == 0 }

func (c Count) String() string { return c.Text }

// Result is the canonical form of an analysis response. The server may use
// alternate field names; DecodeResult folds them into one shape.
type Result struct {
	Error     string
	URL       string
	Malicious Count
	Harmless  Count
	Score     *string
	Detail    string
	Message   string
}

// DecodeResult parses a success body. fallbackURL is used when the body names
// neither "url" nor "input". Bodies that fail to parse, or parse to null, false,
// 0 or "", yield ErrInvalidJSON. Non-object values decode to an empty result.
func DecodeResult(body []byte, fallbackURL string) (*Result, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, ErrInvalidJSON
	}
	if isFalsy(raw) {
		return nil, ErrInvalidJSON
	}

	fields := map[string]json.RawMessage{}
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, ErrInvalidJSON
		}
	}

	res := &Result{
		Error:     truthyText(fields["error"]),
		URL:       firstString(fields, "url", "input"),
		Malicious: firstCount(fields, "malicious_votes", "malicious"),
		Harmless:  firstCount(fields, "harmless_votes", "harmless"),
		Detail:    stringField(fields["detail"]),
		Message:   stringField(fields["message"]),
	}
	if res.URL == "" {
		res.URL = fallbackURL
	}
	if v, ok := fields["score"]; ok && !isNull(v) {
		s := displayText(v)
		res.Score = &s
	}
	return res, nil
}

func isNull(v json.RawMessage) bool {
	return len(v) == 0 || string(bytes.TrimSpace(v)) == "null"
}

func isFalsy(v json.RawMessage) bool {
	if isNull(v) {
		return true
	}
	switch s := string(bytes.TrimSpace(v)); s {
	case "false", `""`:
		return true
	default:
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == 0 {
			return true
		}
	}
	return false
}

func stringField(v json.RawMessage) string {
	var s string
	if isNull(v) || json.Unmarshal(v, &s) != nil {
		return ""
	}
	return s
}

func firstString(fields map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		if s := stringField(fields[k]); s != "" {
			return s
		}
	}
	return ""
}

// truthyText returns the display text of v when it is truthy, else "".
func truthyText(v json.RawMessage) string {
	if isFalsy(v) {
		return ""
	}
	return displayText(v)
}

// displayText renders a JSON value the way it reads when interpolated into
// the card: strings unquoted, numbers in their shortest form.
func displayText(v json.RawMessage) string {
	if val, ok := decodeValue(v); ok {
		return valueText(val)
	}
	return string(bytes.TrimSpace(v))
}

func firstCount(fields map[string]json.RawMessage, keys ...string) Count {
	for _, k := range keys {
		v, ok := fields[k]
		if !ok || isNull(v) {
			continue
		}
		return toCount(v)
	}
	return zeroCount()
}

func toCount(v json.RawMessage) Count {
	val, ok := decodeValue(v)
	if !ok {
		return Count{Text: string(bytes.TrimSpace(v)), Value: math.NaN()}
	}
	return Count{Text: valueText(val), Value: valueNumber(val)}
}
