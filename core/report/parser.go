package report

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrParse indicates that no parsing strategy produced a single course record.
var ErrParse = errors.New("unparsable course data")

// plain integer-or-decimal, optionally signed
var numberRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

var identRe = regexp.MustCompile(`^[A-Za-z_]\w*$`)

// ParseDocument converts decoded payload text into raw course records.
//
// The upstream mobile app's share feature sometimes emits JS-object-literal-like
// text (unquoted keys, unquoted string values) instead of JSON, so parsing is an
// ordered chain of strategies, first success wins:
//  1. strict JSON: a bare array, or an object with a `courses` array
//  2. salvage: quote bareword keys/values across the whole text, re-parse
//  3. structural extraction: locate the `courses` array by bracket scanning and
//     pick key/value pairs out of its `{...}` segments
func ParseDocument(text string) (*Document, error) {
	if doc, ok := parseStrict(text); ok {
		return doc, nil
	}
	if doc, ok := parseStrict(salvageText(text)); ok {
		return doc, nil
	}
	if recs := extractCourses(text); len(recs) > 0 {
		return &Document{Records: recs}, nil
	}
	return nil, ErrParse
}

// ParseCourses is ParseDocument without the enclosing summary fields.
func ParseCourses(text string) ([]RawRecord, error) {
	doc, err := ParseDocument(text)
	if err != nil {
		return nil, err
	}
	return doc.Records, nil
}

// parseStrict attempts standard JSON parsing of the whole text. It succeeds
// when the value is an array of objects, or an object whose `courses` field is
// one; any other shape falls through to the next strategy.
func parseStrict(text string) (*Document, bool) {
	var v interface{}
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	switch val := v.(type) {
	case []interface{}:
		recs := toRecords(val)
		if len(recs) == 0 {
			return nil, false
		}
		return &Document{Records: recs}, true
	case map[string]interface{}:
		arr, ok := val["courses"].([]interface{})
		if !ok {
			return nil, false
		}
		recs := toRecords(arr)
		if len(recs) == 0 {
			return nil, false
		}
		summary := make(RawRecord, len(val)-1)
		for k, f := range val {
			if k != "courses" {
				summary[k] = f
			}
		}
		return &Document{Records: recs, Summary: summary}, true
	}
	return nil, false
}

func toRecords(arr []interface{}) []RawRecord {
	recs := make([]RawRecord, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]interface{}); ok {
			recs = append(recs, RawRecord(m))
		}
	}
	return recs
}

// salvageText rewrites pseudo-JS object-literal text into strict JSON: bareword
// object keys get quoted, and so do bareword scalar values. Quoted strings and
// nested structures are copied untouched; numbers, true/false/null stay bare.
func salvageText(text string) string {
	var out strings.Builder
	out.Grow(len(text) + len(text)/4)

	var stack []byte
	top := func() byte {
		if len(stack) == 0 {
			return 0
		}
		return stack[len(stack)-1]
	}

	var expectKey, expectValue bool
	i, n := 0, len(text)
	for i < n {
		c := text[i]
		switch {
		case c == '"':
			// copy string literal verbatim, honoring escapes
			out.WriteByte(c)
			i++
			for i < n {
				out.WriteByte(text[i])
				if text[i] == '\\' && i+1 < n {
					i++
					out.WriteByte(text[i])
					i++
					continue
				}
				if text[i] == '"' {
					i++
					break
				}
				i++
			}
			expectKey, expectValue = false, false
		case c == '{':
			stack = append(stack, '{')
			out.WriteByte(c)
			i++
			expectKey, expectValue = true, false
		case c == '[':
			stack = append(stack, '[')
			out.WriteByte(c)
			i++
			expectKey, expectValue = false, true
		case c == '}' || c == ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			out.WriteByte(c)
			i++
			expectKey, expectValue = false, false
		case c == ',':
			out.WriteByte(c)
			i++
			expectKey = top() == '{'
			expectValue = top() == '['
		case c == ':':
			out.WriteByte(c)
			i++
			expectKey, expectValue = false, true
		case isSpace(c):
			out.WriteByte(c)
			i++
		case expectKey && isIdentStart(c):
			start := i
			for i < n && isIdentChar(text[i]) {
				i++
			}
			word := text[start:i]
			j := i
			for j < n && isSpace(text[j]) {
				j++
			}
			if j < n && text[j] == ':' {
				out.WriteByte('"')
				out.WriteString(word)
				out.WriteByte('"')
			} else {
				out.WriteString(word)
			}
			expectKey = false
		case expectValue:
			// bareword scalar: runs to the next delimiter at this depth
			start := i
			for i < n && text[i] != ',' && text[i] != '}' && text[i] != ']' {
				i++
			}
			out.WriteString(quoteScalar(text[start:i]))
			expectValue = false
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// quoteScalar wraps a bareword value in double quotes unless it is already
// valid bare JSON (number, true/false/null).
func quoteScalar(raw string) string {
	trimmed := strings.TrimSpace(raw)
	switch trimmed {
	case "", "true", "false", "null":
		return raw
	}
	if numberRe.MatchString(trimmed) {
		return raw
	}
	quoted, err := json.Marshal(trimmed)
	if err != nil { // cannot happen for a string
		return raw
	}
	return string(quoted)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}

// extractCourses is the last-resort strategy for a still-malformed document
// that encloses a `courses` array: find the array by bracket scanning, split it
// into top-level object segments and pick the key/value pairs out of each.
func extractCourses(text string) []RawRecord {
	idx := strings.Index(text, "courses")
	if idx < 0 {
		return nil
	}
	rest := text[idx+len("courses"):]
	ci := strings.IndexByte(rest, ':')
	if ci < 0 {
		return nil
	}
	bi := strings.IndexByte(rest[ci:], '[')
	if bi < 0 {
		return nil
	}
	start := ci + bi

	depth, end := 0, -1
	for i := start; i < len(rest); i++ {
		switch rest[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				end = i
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return nil
	}

	var records []RawRecord
	for _, seg := range splitObjects(rest[start+1 : end]) {
		if rec := scanPairs(seg); len(rec) > 0 {
			records = append(records, rec)
		}
	}
	return records
}

// splitObjects returns the contents of each top-level {...} segment: a segment
// begins at a '{' when depth was 0 and ends at the '}' returning depth to 0.
func splitObjects(body string) []string {
	var segs []string
	depth, segStart := 0, -1
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '{':
			if depth == 0 {
				segStart = i + 1
			}
			depth++
		case '}':
			depth--
			if depth == 0 && segStart >= 0 {
				segs = append(segs, body[segStart:i])
				segStart = -1
			}
		}
	}
	return segs
}

// scanPairs extracts `key: value` pairs from one object segment. Values are
// trimmed, stripped of a single layer of matching quotes and number-coerced.
func scanPairs(seg string) RawRecord {
	rec := RawRecord{}
	for _, piece := range splitTopLevel(seg) {
		ci := strings.IndexByte(piece, ':')
		if ci < 0 {
			continue
		}
		key := stripQuotes(strings.TrimSpace(piece[:ci]))
		if !identRe.MatchString(key) {
			continue
		}
		rec[key] = coerceScalar(strings.TrimSpace(piece[ci+1:]))
	}
	return rec
}

// splitTopLevel splits on commas at zero brace/bracket depth.
func splitTopLevel(s string) []string {
	var pieces []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		case ',':
			if depth == 0 {
				pieces = append(pieces, s[start:i])
				start = i + 1
			}
		}
	}
	return append(pieces, s[start:])
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func coerceScalar(s string) interface{} {
	s = stripQuotes(s)
	if numberRe.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
