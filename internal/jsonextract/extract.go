// Package jsonextract recovers a JSON document from model output that may
// surround it with prose.
package jsonextract

import (
	"encoding/json"
	"strings"
)

// Extract returns the JSON text contained in output. The trimmed output is
// returned as-is when it already parses. Otherwise the slice from the first
// '[' or '{' to the last ']' or '}' is tried. If that fails too, the error from
// parsing the whole output is returned.
//
// Brackets are located by first and last occurrence only, so prose that
// itself contains brackets can produce a wrong slice.
func Extract(output string) (string, error) {
	trimmed := strings.TrimSpace(output)

	parseErr := check(trimmed)
	if parseErr == nil {
		return trimmed, nil
	}

	start := firstIndex(trimmed, "[", "{")
	end := lastIndex(trimmed, "]", "}")
	if start < 0 || end < 0 || end < start {
		return "", parseErr
	}

	candidate := trimmed[start : end+1]
	if check(candidate) != nil {
		return "", parseErr
	}
	return candidate, nil
}

// Decode extracts JSON from output and unmarshals it into v
func Decode(output string, v any) error {
	candidate, err := Extract(output)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(candidate), v)
}

func check(s string) error {
	var v any
	return json.Unmarshal([]byte(s), &v)
}

func firstIndex(s string, needles ...string) int {
	best := -1
	for _, n := range needles {
		if i := strings.Index(s, n); i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best
}

func lastIndex(s string, needles ...string) int {
	best := -1
	for _, n := range needles {
		if i := strings.LastIndex(s, n); i > best {
			best = i
		}
	}
	return best
}
