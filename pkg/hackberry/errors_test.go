package hackberry

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseErrorFormatting(t *testing.T) {
	tests := []struct {
		err      *ParseError
		contains []string
	}{
		{NewParseError("bad frame", nil), []string{"hackberry:", "bad frame"}},
		{NewParseErrorAt(2, 17, "missing colon", ErrMalformedHeader), []string{"line 2", "offset 17", "missing colon"}},
		{&ParseError{Offset: 5, Message: "odd byte"}, []string{"offset 5", "odd byte"}},
		{&ParseError{Offset: -1, Line: 3, Message: "bad name"}, []string{"line 3", "bad name"}},
	}

	for _, tc := range tests {
		msg := tc.err.Error()
		for _, want := range tc.contains {
			if !strings.Contains(msg, want) {
				t.Errorf("Error() = %q, should contain %q", msg, want)
			}
		}
	}
}

func TestParseErrorUnwrap(t *testing.T) {
	err := NewParseError("content-length junk", ErrInvalidContentLength)

	if !errors.Is(err, ErrInvalidContentLength) {
		t.Error("errors.Is should match the cause")
	}
	if errors.Unwrap(err) != ErrInvalidContentLength {
		t.Error("Unwrap should return the cause")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Error("errors.As should match *ParseError")
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		err        error
		incomplete bool
		malformed  bool
		limit      bool
	}{
		{ErrNeedMoreData, true, false, false},
		{ErrMalformedStartLine, false, true, false},
		{ErrMalformedHeader, false, true, false},
		{ErrInvalidHeaderName, false, true, false},
		{ErrInvalidContentLength, false, true, false},
		{ErrHeaderTooLarge, false, false, true},
		{ErrTooManyHeaders, false, false, true},
		{ErrBodyTooLarge, false, false, true},
		{ErrUnexpectedEOF, false, false, false},
		{NewParseError("wrapped", ErrMalformedHeader), false, true, false},
		{fmt.Errorf("outer: %w", ErrNeedMoreData), true, false, false},
		{nil, false, false, false},
	}

	for _, tc := range tests {
		if got := IsIncomplete(tc.err); got != tc.incomplete {
			t.Errorf("IsIncomplete(%v) = %v, want %v", tc.err, got, tc.incomplete)
		}
		if got := IsMalformed(tc.err); got != tc.malformed {
			t.Errorf("IsMalformed(%v) = %v, want %v", tc.err, got, tc.malformed)
		}
		if got := IsLimitExceeded(tc.err); got != tc.limit {
			t.Errorf("IsLimitExceeded(%v) = %v, want %v", tc.err, got, tc.limit)
		}
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should be nil")
	}
	err := WrapError(ErrNeedMoreData, "while reading")
	if !errors.Is(err, ErrNeedMoreData) {
		t.Error("wrapped error should match the original")
	}
	if !strings.Contains(err.Error(), "while reading") {
		t.Errorf("Error() = %q, should contain context", err.Error())
	}
}
