package content

import (
	"fmt"
	"mime"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/blockberries/hackberry/pkg/hackberry"
)

// Charset extracts the charset parameter from a content-type header value,
// e.g. "text/plain; charset=ISO-8859-1" yields "iso-8859-1".
// Missing or unparseable values yield "".
func Charset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(params["charset"])
}

// DecodeText converts body from the named charset to UTF-8.
// An empty name or any UTF-8 alias returns the body unchanged.
func DecodeText(body []byte, charset string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8", "us-ascii", "ascii":
		return string(body), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", fmt.Errorf("content: charset %q: %w", charset, err)
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("content: charset %q: %w", charset, err)
	}
	return string(out), nil
}

// MessageText decodes m's body to a UTF-8 string: content-encoding first,
// then the charset declared by the content-type header.
func MessageText(m *hackberry.Message, limits hackberry.Limits) (string, error) {
	body, err := DecodeMessageBody(m, limits)
	if err != nil {
		return "", err
	}
	return DecodeText(body, Charset(m.Header.Get("content-type")))
}
