// Package content decodes message bodies: content-encoding chains and
// charset conversion of text payloads.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/blockberries/hackberry/pkg/hackberry"
)

// Sentinel errors for body decoding.
var (
	// ErrUnknownEncoding indicates an unsupported content-encoding token.
	ErrUnknownEncoding = errors.New("content: unknown content-encoding")

	// ErrDecodedTooLarge indicates the decoded body exceeds the configured
	// ceiling. Compressed input is cheap to send and expensive to inflate;
	// the ceiling bounds the blow-up.
	ErrDecodedTooLarge = errors.New("content: decoded body too large")
)

// Decode reverses the content-encoding chain applied to body.
//
// encoding is the content-encoding header value: a comma-separated list of
// codings in the order they were applied, so decoding runs right to left.
// Supported codings: identity, gzip, deflate (zlib with raw-flate fallback),
// zstd, snappy, lz4. maxDecoded bounds the size of each decoding step;
// 0 means unbounded.
func Decode(body []byte, encoding string, maxDecoded int64) ([]byte, error) {
	codings := splitCodings(encoding)
	for i := len(codings) - 1; i >= 0; i-- {
		var err error
		body, err = decodeOne(body, codings[i], maxDecoded)
		if err != nil {
			return nil, err
		}
	}
	return body, nil
}

// splitCodings splits a content-encoding value into normalized tokens.
func splitCodings(encoding string) []string {
	parts := strings.Split(encoding, ",")
	codings := parts[:0]
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			codings = append(codings, p)
		}
	}
	return codings
}

// decodeOne reverses a single coding.
func decodeOne(body []byte, coding string, maxDecoded int64) ([]byte, error) {
	switch coding {
	case "identity":
		return body, nil

	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("content: gzip: %w", err)
		}
		defer zr.Close()
		return readLimited(zr, maxDecoded)

	case "deflate":
		// HTTP deflate is zlib-wrapped, but some peers send raw flate.
		zr, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			fr := flate.NewReader(bytes.NewReader(body))
			defer fr.Close()
			return readLimited(fr, maxDecoded)
		}
		defer zr.Close()
		return readLimited(zr, maxDecoded)

	case "zstd":
		zr, err := zstd.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("content: zstd: %w", err)
		}
		defer zr.Close()
		return readLimited(zr.IOReadCloser(), maxDecoded)

	case "snappy":
		n, err := snappy.DecodedLen(body)
		if err != nil {
			return nil, fmt.Errorf("content: snappy: %w", err)
		}
		if maxDecoded > 0 && int64(n) > maxDecoded {
			return nil, ErrDecodedTooLarge
		}
		out, err := snappy.Decode(nil, body)
		if err != nil {
			return nil, fmt.Errorf("content: snappy: %w", err)
		}
		return out, nil

	case "lz4":
		return readLimited(lz4.NewReader(bytes.NewReader(body)), maxDecoded)

	default:
		return nil, fmt.Errorf("content: coding %q: %w", coding, ErrUnknownEncoding)
	}
}

// readLimited reads r to completion, failing once more than max bytes appear.
func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("content: decode: %w", err)
		}
		return out, nil
	}
	out, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("content: decode: %w", err)
	}
	if int64(len(out)) > max {
		return nil, ErrDecodedTooLarge
	}
	return out, nil
}

// DecodeMessageBody decodes m's body according to its content-encoding
// header, bounded by limits.MaxDecodedBodyBytes. A message without the
// header is returned as-is.
func DecodeMessageBody(m *hackberry.Message, limits hackberry.Limits) ([]byte, error) {
	encoding := m.Header.Get("content-encoding")
	if encoding == "" {
		return m.Body, nil
	}
	return Decode(m.Body, encoding, limits.MaxDecodedBodyBytes)
}
