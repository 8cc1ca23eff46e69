package wxr

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"
)

// ParseError is a fatal document-level parse failure. It aborts the whole
// import run; everything downstream of a successful parse isolates failures
// per item.
type ParseError struct {
	Line int // 1-based line of the syntax error, 0 if unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed WXR document at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed WXR document: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// knownVersions are the WXR format versions this parser has been exercised
// against. Unknown versions are logged and parsed anyway.
var knownVersions = map[string]bool{"1.0": true, "1.1": true, "1.2": true}

// Parse reads a complete WXR document. A syntactically malformed document
// returns a *ParseError carrying a line hint; an unknown wxr_version is
// logged and accepted.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read WXR document: %w", err)
	}

	data = sanitizeUTF8(data)
	data = normalizeNamespaces(data)

	doc := &Document{}
	if err := xml.Unmarshal(data, doc); err != nil {
		var syn *xml.SyntaxError
		if errors.As(err, &syn) {
			return nil, &ParseError{Line: syn.Line, Err: err}
		}
		return nil, &ParseError{Err: err}
	}

	if v := doc.Channel.WXRVersion; v != "" && !knownVersions[v] {
		slog.Warn("unknown wxr_version, continuing anyway", "version", v)
	}

	return doc, nil
}

// normalizeNamespaces rewrites the 1.0 and 1.1 WordPress export namespace
// URIs to 1.2 so a single set of qualified XML selectors matches every
// export version. The URIs only ever appear in xmlns declarations, so a
// byte-level replace is safe.
func normalizeNamespaces(data []byte) []byte {
	for _, old := range []string{"wordpress.org/export/1.0", "wordpress.org/export/1.1"} {
		data = bytes.ReplaceAll(data, []byte(old), []byte("wordpress.org/export/1.2"))
	}
	return data
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the replacement rune.
// Exports produced by old WordPress installs occasionally carry latin-1
// bytes that would otherwise fail the XML decoder.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
