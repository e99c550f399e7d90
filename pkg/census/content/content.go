// Package content implements the content-preview pipeline for scanned
// files: the binary-vs-text heuristic, bounded preview extraction, and
// the CSV field escaping applied to the preview before it is embedded
// in an output line.
package content

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jamesainslie/census/pkg/census/logging"
)

var logger = logging.Get("content")

// DefaultPreviewBytes is the maximum number of raw bytes read for a
// content preview.
const DefaultPreviewBytes = 1024

// classifyPrefixBytes is how much of a file the binary heuristic inspects.
const classifyPrefixBytes = 1024

// IsBinary reports whether the file at path looks like binary content.
//
// The heuristic inspects at most the first 1024 bytes: any control byte
// below 0x09, or strictly between 0x0D and 0x20, marks the file binary.
// Tab through carriage return (0x09-0x0D), DEL (0x7F), and everything
// from 0x20 up, including all bytes >= 0x80, count as text signals.
//
// A read failure classifies the file as text. This is a deliberate
// permissive default: the preview step fails safely on its own if the
// file truly cannot be read.
func IsBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("binary classification failed, treating as text", "path", path, "error", err)
		return false
	}
	defer f.Close()

	buf := make([]byte, classifyPrefixBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		logger.Warn("binary classification failed, treating as text", "path", path, "error", err)
		return false
	}

	for _, b := range buf[:n] {
		if b < 0x09 || (b > 0x0D && b < 0x20) {
			return true
		}
	}
	return false
}

// Preview reads at most maxBytes bytes of the file and returns them as
// a valid UTF-8 string. Truncation happens on the byte stream, so a
// multi-byte sequence may be cut: an incomplete trailing sequence is
// dropped, and invalid sequences elsewhere are replaced with U+FFFD so
// the output stream stays well-formed UTF-8.
func Preview(path string, maxBytes int) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultPreviewBytes
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, maxBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	return decodePreview(buf[:n]), nil
}

// decodePreview converts truncated raw bytes to a valid UTF-8 string.
func decodePreview(b []byte) string {
	b = trimPartialRune(b)
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}

// trimPartialRune drops an incomplete multi-byte sequence from the end
// of b, the artifact of cutting the stream at a fixed byte budget.
// Invalid bytes that are not a truncated-but-plausible rune prefix are
// kept for decodePreview to replace.
func trimPartialRune(b []byte) []byte {
	end := len(b)
	for i := 0; i < utf8.UTFMax && end-1-i >= 0; i++ {
		c := b[end-1-i]
		if c < utf8.RuneSelf {
			return b // ASCII tail, nothing cut
		}
		if c >= 0xC0 {
			// Found the start byte of the trailing sequence. Drop it
			// and its continuation bytes if the sequence is incomplete.
			start := end - 1 - i
			r, size := utf8.DecodeRune(b[start:])
			if r == utf8.RuneError && size <= 1 && end-start < utf8.UTFMax {
				return b[:start]
			}
			return b
		}
		// Continuation byte, keep walking back.
	}
	return b
}

// EscapeField escapes a content preview for embedding in one line of
// comma-separated output. Every quote is doubled; newline, carriage
// return, and tab become the visible two-character tokens \n, \r, and
// \t; surrounding whitespace is trimmed; and the result is wrapped in
// one outer quote pair even when empty.
func EscapeField(s string) string {
	s = strings.ReplaceAll(s, `"`, `""`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	s = strings.TrimSpace(s)
	return `"` + s + `"`
}
