package formctl_test

import (
	"errors"
	"math"
	"testing"

	"github.com/raysh454/urlanalyzer/internal/formctl"
)

func TestDecodeResult_CanonicalFields(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name          string
		body          string
		wantURL       string
		wantMalicious string
		wantHarmless  string
	}{
		{"primary names", `{"url":"http://a.test","malicious_votes":5,"harmless_votes":2}`, "http://a.test", "5", "2"},
		{"alternate names", `{"input":"http://b.test","malicious":1,"harmless":9}`, "http://b.test", "1", "9"},
		{"primary wins over alternate", `{"url":"u","input":"i","malicious_votes":3,"malicious":7}`, "u", "3", "0"},
		{"null falls through to alternate", `{"malicious_votes":null,"malicious":4}`, "fallback", "4", "0"},
		{"empty url falls through to input", `{"url":"","input":"i"}`, "i", "0", "0"},
		{"missing counts default to zero", `{"url":"x"}`, "x", "0", "0"},
		{"string counts kept verbatim", `{"malicious_votes":"12","harmless_votes":"3"}`, "fallback", "12", "3"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := formctl.DecodeResult([]byte(tt.body), "fallback")
			if err != nil {
				t.Fatalf("DecodeResult: %v", err)
			}
			if r.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", r.URL, tt.wantURL)
			}
			if r.Malicious.Text != tt.wantMalicious || r.Harmless.Text != tt.wantHarmless {
				t.Errorf("counts = %s/%s, want %s/%s", r.Malicious, r.Harmless, tt.wantMalicious, tt.wantHarmless)
			}
		})
	}
}

func TestDecodeResult_Score(t *testing.T) {
	t.Parallel()
	r, err := formctl.DecodeResult([]byte(`{"score":0.75}`), "")
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if r.Score == nil || *r.Score != "0.75" {
		t.Errorf("Score = %v, want 0.75", r.Score)
	}

	r, _ = formctl.DecodeResult([]byte(`{"score":null}`), "")
	if r.Score != nil {
		t.Errorf("null score should be absent, got %q", *r.Score)
	}

	r, _ = formctl.DecodeResult([]byte(`{"score":0}`), "")
	if r.Score == nil || *r.Score != "0" {
		t.Errorf("zero score should render, got %v", r.Score)
	}
}

func TestDecodeResult_ErrorField(t *testing.T) {
	t.Parallel()
	r, err := formctl.DecodeResult([]byte(`{"error":"bad url","detail":"d","message":"m"}`), "")
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if r.Error != "bad url" || r.Detail != "d" || r.Message != "m" {
		t.Errorf("unexpected result %+v", r)
	}

	r, _ = formctl.DecodeResult([]byte(`{"error":""}`), "")
	if r.Error != "" {
		t.Errorf("empty error should be ignored, got %q", r.Error)
	}
}

func TestDecodeResult_Invalid(t *testing.T) {
	t.Parallel()
	for _, body := range []string{"", "not json", "{", "null", "false", "0", `""`} {
		if _, err := formctl.DecodeResult([]byte(body), ""); !errors.Is(err, formctl.ErrInvalidJSON) {
			t.Errorf("DecodeResult(%q) err = %v, want ErrInvalidJSON", body, err)
		}
	}
}

func TestDecodeResult_NonObjectUsesDefaults(t *testing.T) {
	t.Parallel()
	r, err := formctl.DecodeResult([]byte(`[1,2]`), "http://typed.test")
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if r.URL != "http://typed.test" || !r.Malicious.IsZero() || !r.Harmless.IsZero() {
		t.Errorf("unexpected result %+v", r)
	}
}

func TestDecodeResult_NonNumericCount(t *testing.T) {
	t.Parallel()
	r, err := formctl.DecodeResult([]byte(`{"malicious_votes":"many"}`), "")
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if !math.IsNaN(r.Malicious.Value) || r.Malicious.Text != "many" {
		t.Errorf("expected NaN count with text 'many', got %+v", r.Malicious)
	}
}

func TestDecodeResult_CountCoercion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		raw       string
		wantText  string
		wantValue float64 // NaN means "expect NaN"
	}{
		{"float literal", `5.0`, "5", 5},
		{"exponent literal", `1e1`, "10", 10},
		{"large literal", `1e21`, "1e+21", 1e21},
		{"small literal", `0.0000001`, "1e-7", 1e-7},
		{"inf word is not a number", `"inf"`, "inf", math.NaN()},
		{"nan word is not a number", `"nan"`, "nan", math.NaN()},
		{"Infinity word is", `"Infinity"`, "Infinity", math.Inf(1)},
		{"hex string", `"0x10"`, "0x10", 16},
		{"padded string", `" 7 "`, " 7 ", 7},
		{"blank string", `"  "`, "  ", 0},
		{"underscore digits", `"1_000"`, "1_000", math.NaN()},
		{"empty array", `[]`, "", 0},
		{"single element array", `["4"]`, "4", 4},
		{"multi element array", `[1,2]`, "1,2", math.NaN()},
		{"object", `{"a":1}`, "[object Object]", math.NaN()},
		{"true", `true`, "true", 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := formctl.DecodeResult([]byte(`{"malicious_votes":`+tt.raw+`}`), "")
			if err != nil {
				t.Fatalf("DecodeResult: %v", err)
			}
			got := r.Malicious
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if math.IsNaN(tt.wantValue) {
				if !math.IsNaN(got.Value) {
					t.Errorf("Value = %v, want NaN", got.Value)
				}
			} else if got.Value != tt.wantValue {
				t.Errorf("Value = %v, want %v", got.Value, tt.wantValue)
			}
		})
	}
}

func TestSelectBadge_CoercedCounts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		body string
		want string
	}{
		{`{"malicious_votes":"inf","harmless_votes":2}`, "Harmless: 2"},
		{`{"malicious_votes":[],"harmless_votes":0}`, "No votes yet"},
		{`{"malicious_votes":5.0,"harmless_votes":2}`, "Malicious: 5"},
	}
	for _, tt := range tests {
		r, err := formctl.DecodeResult([]byte(tt.body), "")
		if err != nil {
			t.Fatalf("DecodeResult(%s): %v", tt.body, err)
		}
		if got := formctl.SelectBadge(r).Label; got != tt.want {
			t.Errorf("%s: badge = %q, want %q", tt.body, got, tt.want)
		}
	}
}
