// Package validation checks command-line inputs before they reach the
// converters: path sanity, size limits against resource exhaustion, binary
// content and the dialect a document is written in.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/FocuswithJustin/richtext/core/dialect"
)

// Limits for untrusted input (CWE-400).
const (
	// MaxInputSize is the maximum accepted document size (64 MB).
	MaxInputSize = 64 << 20
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
	// sniffLength is how much of a document DetectDialect and IsLikelyText
	// look at.
	sniffLength = 512
)

// Common validation errors.
var (
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrInputTooLarge    = errors.New("input too large")
	ErrBinaryInput      = errors.New("input is not text")
)

// Dialect names returned by DetectDialect.
const (
	DialectData = "data"
	DialectView = "view"
)

// ValidatePath checks a user-supplied path for length limits, null bytes and
// control characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}

	// Check for null bytes
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}

	return nil
}

// ReadLimited reads r up to max bytes. It returns ErrInputTooLarge when r
// holds more.
func ReadLimited(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, max)
	}
	return data, nil
}

// ValidateText rejects content that does not look like markup text. Empty
// input passes; the parsers report it.
func ValidateText(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if !IsLikelyText(data) {
		return ErrBinaryInput
	}
	return nil
}

// IsLikelyText reports whether the start of buf appears to be text (UTF-8,
// ASCII).
func IsLikelyText(buf []byte) bool {
	if len(buf) > sniffLength {
		buf = buf[:sniffLength]
	}
	if len(buf) == 0 {
		return false
	}

	// Null bytes are a strong indicator of binary content.
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	printable := 0
	control := 0
	for _, b := range buf {
		if b >= 0x20 && b <= 0x7e || b == '\t' || b == '\n' || b == '\r' {
			printable++
		} else if b < 0x20 {
			control++
		}
		// UTF-8 lead and continuation bytes are neutral
	}

	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}

// DetectDialect guesses the dialect of a document from its start. An XML
// declaration or a root <div> declaring the data namespace means data,
// anything else is taken as a view fragment.
func DetectDialect(data []byte) string {
	head := data
	if len(head) > sniffLength {
		head = head[:sniffLength]
	}
	head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
	head = bytes.TrimLeftFunc(head, unicode.IsSpace)

	if bytes.HasPrefix(head, []byte("<?xml")) {
		return DialectData
	}
	if bytes.HasPrefix(head, []byte("<"+dialect.RootElement)) && bytes.Contains(head, []byte(dialect.RichTextNS)) {
		return DialectData
	}
	return DialectView
}
