// Package encoding provides text decoding and line tokenizing utilities for
// the line-oriented mesh formats (OBJ, MTL, ASCII STL).
package encoding

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText converts file contents to a UTF-8 string. A UTF-8 or UTF-16
// byte order mark selects the source encoding and is dropped; without one
// the data is read as UTF-8. Returns the raw bytes as a string if conversion
// fails.
func DecodeText(data []byte) string {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// Lines decodes data and splits it into lines, trimming a trailing \r so
// files authored on Windows tokenize the same way.
func Lines(data []byte) []string {
	text := DecodeText(data)
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// StripComment removes everything from the first '#' onward.
func StripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

// NormalizeSpaces trims the line and collapses every run of whitespace
// (spaces, tabs) into a single space.
func NormalizeSpaces(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// CleanLine strips a comment and normalizes whitespace.
func CleanLine(line string) string {
	return NormalizeSpaces(StripComment(line))
}

// Fields returns the whitespace-separated tokens of a cleaned line.
func Fields(line string) []string {
	return strings.Fields(StripComment(line))
}

// Rest returns the remainder of a cleaned line after its first token, with
// inner spacing normalized. Used for keywords whose argument may contain
// spaces (mtllib, map_Kd, newmtl).
func Rest(line string) string {
	clean := CleanLine(line)
	if i := strings.IndexByte(clean, ' '); i >= 0 {
		return clean[i+1:]
	}
	return ""
}
