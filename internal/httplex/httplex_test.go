package httplex

import (
	"errors"
	"strings"
	"testing"
)

func TestTrim(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"", ""},
		{"   ", ""},
		{"x", "x"},
		{"  x", "x"},
		{"x  ", "x"},
		{"\t x \r\n", "x"},
		{"a b", "a b"},
		{" a \t b ", "a \t b"},
	}

	for _, tc := range tests {
		if got := string(Trim([]byte(tc.in))); got != tc.expected {
			t.Errorf("Trim(%q) = %q, want %q", tc.in, got, tc.expected)
		}
		if got := TrimString(tc.in); got != tc.expected {
			t.Errorf("TrimString(%q) = %q, want %q", tc.in, got, tc.expected)
		}
	}
}

func TestTrimAliases(t *testing.T) {
	b := []byte("  abc  ")
	got := Trim(b)
	if &got[0] != &b[2] {
		t.Error("Trim should alias the input slice")
	}
}

func TestToLower(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"", ""},
		{"host", "host"},
		{"Host", "host"},
		{"CONTENT-LENGTH", "content-length"},
		{"X-Req-ID", "x-req-id"},
		{"already-lower-123", "already-lower-123"},
	}

	for _, tc := range tests {
		if got := ToLower(tc.in); got != tc.expected {
			t.Errorf("ToLower(%q) = %q, want %q", tc.in, got, tc.expected)
		}
	}
}

func TestToLowerNoAllocWhenLower(t *testing.T) {
	s := "content-length"
	allocs := testing.AllocsPerRun(100, func() {
		_ = ToLower(s)
	})
	if allocs != 0 {
		t.Errorf("ToLower on lowercase input allocated %v times", allocs)
	}
}

func TestValidHeaderName(t *testing.T) {
	valid := []string{"host", "Content-Length", "x-req-id-2", "A"}
	for _, s := range valid {
		if !ValidHeaderName(s) {
			t.Errorf("ValidHeaderName(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "host name", "host:", "héader", "under_score", "tab\tname"}
	for _, s := range invalid {
		if ValidHeaderName(s) {
			t.Errorf("ValidHeaderName(%q) = true, want false", s)
		}
	}
}

func TestValidToken(t *testing.T) {
	valid := []string{"GET", "/a/b?q=1", "HTTP/1.1", "*"}
	for _, s := range valid {
		if !ValidToken(s) {
			t.Errorf("ValidToken(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "two words", "a\rb", "a\x00b", "del\x7f"}
	for _, s := range invalid {
		if ValidToken(s) {
			t.Errorf("ValidToken(%q) = true, want false", s)
		}
	}
}

func TestParseNonNegative(t *testing.T) {
	tests := []struct {
		in       string
		expected int64
	}{
		{"0", 0},
		{"7", 7},
		{"11", 11},
		{"4096", 4096},
		{"9223372036854775807", 1<<63 - 1},
	}

	for _, tc := range tests {
		got, err := ParseNonNegative(tc.in)
		if err != nil {
			t.Errorf("ParseNonNegative(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.expected {
			t.Errorf("ParseNonNegative(%q) = %d, want %d", tc.in, got, tc.expected)
		}
	}
}

func TestParseNonNegativeErrors(t *testing.T) {
	tests := []struct {
		in       string
		expected error
	}{
		{"", ErrEmptyNumber},
		{"-1", ErrNonDigit},
		{"+1", ErrNonDigit},
		{" 1", ErrNonDigit},
		{"1 ", ErrNonDigit},
		{"1x", ErrNonDigit},
		{"0x10", ErrNonDigit},
		{"1_000", ErrNonDigit},
		{"9223372036854775808", ErrNumberOverflow},
		{strings.Repeat("9", 30), ErrNumberOverflow},
	}

	for _, tc := range tests {
		_, err := ParseNonNegative(tc.in)
		if !errors.Is(err, tc.expected) {
			t.Errorf("ParseNonNegative(%q) error = %v, want %v", tc.in, err, tc.expected)
		}
	}
}
