// Package options implements the command-line option set. Tokens of the
// form --key=value are collected into a map once at startup; each stage
// of the pipeline pops the options it understands, and whatever is left
// at the end is reported as unrecognized.
package options

import (
	"sort"
	"strings"

	"abgraph/internal/apperr"
)

// Set holds the parsed options. It is not safe for concurrent use, which
// is fine: the whole pipeline is single-threaded.
type Set struct {
	values map[string]string
}

// Parse builds a Set from raw command-line tokens. Each token is split on
// the first '='; a token without '=' yields an empty-string value. Leading
// dashes on the key are stripped, so "--cycles=10", "-cycles=10" and
// "cycles=10" are equivalent.
func Parse(args []string) *Set {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, _ := strings.Cut(arg, "=")
		key = strings.TrimLeft(key, "-")
		if key == "" {
			continue
		}
		values[key] = value
	}
	return &Set{values: values}
}

// Get returns the value for name without consuming it.
func (s *Set) Get(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Pop returns the value for name and removes it from the set.
func (s *Set) Pop(name string) (string, bool) {
	v, ok := s.values[name]
	if ok {
		delete(s.values, name)
	}
	return v, ok
}

// GetBool returns the boolean value for name without consuming it.
// Accepted values are y|yes|1 for true and n|no|0 for false, case
// insensitive; anything else is an invalid-option-value error.
func (s *Set) GetBool(name string) (value, present bool, err error) {
	raw, ok := s.values[name]
	if !ok {
		return false, false, nil
	}
	b, err := parseBool(name, raw)
	return b, true, err
}

// PopBool behaves like GetBool but consumes the option.
func (s *Set) PopBool(name string) (value, present bool, err error) {
	value, present, err = s.GetBool(name)
	if present {
		delete(s.values, name)
	}
	return value, present, err
}

// Remaining returns the keys that no stage has consumed, sorted.
func (s *Set) Remaining() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len reports how many options are still unconsumed.
func (s *Set) Len() int { return len(s.values) }

func parseBool(name, raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "y", "yes", "1":
		return true, nil
	case "n", "no", "0":
		return false, nil
	}
	return false, apperr.InvalidOption(name, raw, "expected y|yes|1 or n|no|0")
}
