package analyzer

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestSanitizeURL(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
	}{
		{"http://example.com", "http://example.com/"},
		{"HTTPS://Example.COM/Path?q=1#frag", "https://example.com/Path"},
		{"http://example.com:8080/a/b", "http://example.com:8080/a/b"},
		{"http://user:pw@example.com/x", "http://example.com/x"},
		{"http://bücher.example/", "http://xn--bcher-kva.example/"},
		{"http://127.0.0.1/admin", "http://127.0.0.1/admin"},
		{"http://[::1]:9000/", "http://[::1]:9000/"},
		{"http://[::1]/", "http://[::1]/"},
	}
	for _, tc := range cases {
		got, err := SanitizeURL(tc.in)
		if err != nil {
			t.Errorf("SanitizeURL(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("SanitizeURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeURL_Rejects(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "example.com", "ftp://example.com/", "http://", "javascript:alert(1)", "http://%zz"} {
		if _, err := SanitizeURL(in); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("SanitizeURL(%q) err = %v, want ErrInvalidURL", in, err)
		}
	}
}

func TestPollDelay(t *testing.T) {
	t.Parallel()
	want := []time.Duration{1, 1, 1, 4, 4, 4, 4, 4, 8, 8}
	for i, w := range want {
		if got := PollDelay(i); got != w*time.Second {
			t.Errorf("PollDelay(%d) = %v, want %v", i, got, w*time.Second)
		}
	}
}

func TestStatusOf(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"nil", nil, http.StatusOK, ""},
		{"pending", ErrPending, http.StatusAccepted, PendingDetail},
		{"missing key", ErrMissingAPIKey, http.StatusInternalServerError, "VIRUS_TOTAL_API_KEY not set"},
		{"status error", &StatusError{Status: 429, Detail: "VT POST error: slow down"}, 429, "VT POST error: slow down"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "boom"},
	}
	for _, tc := range cases {
		status, detail := StatusOf(tc.err)
		if status != tc.status || detail != tc.detail {
			t.Errorf("%s: StatusOf = %d %q, want %d %q", tc.name, status, detail, tc.status, tc.detail)
		}
	}
}
