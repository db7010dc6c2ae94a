package formctl_test

import (
	"testing"

	"github.com/raysh454/urlanalyzer/internal/formctl"
)

func TestSelectBadge(t *testing.T) {
	t.Parallel()
	tests := []struct {
		body      string
		wantKind  formctl.BadgeKind
		wantLabel string
	}{
		{`{"malicious_votes":5,"harmless_votes":2}`, formctl.BadgeMalicious, "Malicious: 5"},
		{`{"malicious_votes":0,"harmless_votes":0}`, formctl.BadgeNeutral, "No votes yet"},
		{`{}`, formctl.BadgeNeutral, "No votes yet"},
		{`{"malicious_votes":3,"harmless_votes":3}`, formctl.BadgeHarmless, "Harmless: 3"},
		{`{"malicious_votes":2,"harmless_votes":5}`, formctl.BadgeHarmless, "Harmless: 5"},
		{`{"malicious_votes":1,"harmless_votes":0}`, formctl.BadgeMalicious, "Malicious: 1"},
		{`{"malicious":"10","harmless":"9"}`, formctl.BadgeMalicious, "Malicious: 10"},
		{`{"malicious_votes":"lots","harmless_votes":0}`, formctl.BadgeHarmless, "Harmless: 0"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.body, func(t *testing.T) {
			t.Parallel()
			r, err := formctl.DecodeResult([]byte(tt.body), "")
			if err != nil {
				t.Fatalf("DecodeResult: %v", err)
			}
			b := formctl.SelectBadge(r)
			if b.Kind != tt.wantKind || b.Label != tt.wantLabel {
				t.Errorf("badge = %s %q, want %s %q", b.Kind, b.Label, tt.wantKind, tt.wantLabel)
			}
		})
	}
}
