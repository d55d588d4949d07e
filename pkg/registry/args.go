package registry

import (
	"fmt"
	"sort"
	"time"

	"github.com/zclconf/go-cty/cty/gocty"
)

// DecodeArg decodes the named argument into target, which must be a pointer
// to a Go value gocty can convert into. A missing or null argument leaves
// target untouched and reports false.
func (s Spec) DecodeArg(name string, target any) (bool, error) {
	val, ok := s.Arguments[name]
	if !ok || val.IsNull() {
		return false, nil
	}
	if !val.IsWhollyKnown() {
		return false, fmt.Errorf("argument '%s' is not known", name)
	}
	if err := gocty.FromCtyValue(val, target); err != nil {
		return false, fmt.Errorf("argument '%s': %w", name, err)
	}
	return true, nil
}

// DurationArg reads a duration string such as "150ms". A missing argument
// yields def.
func (s Spec) DurationArg(name string, def time.Duration) (time.Duration, error) {
	var raw string
	ok, err := s.DecodeArg(name, &raw)
	if err != nil || !ok {
		return def, err
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def, fmt.Errorf("argument '%s': %w", name, err)
	}
	if d < 0 {
		return def, fmt.Errorf("argument '%s' cannot be negative, got %s", name, d)
	}
	return d, nil
}

// IntArg reads an integer argument. A missing argument yields def.
func (s Spec) IntArg(name string, def int) (int, error) {
	v := def
	if _, err := s.DecodeArg(name, &v); err != nil {
		return def, err
	}
	return v, nil
}

// UnknownArgs returns the names of arguments not listed in known.
func (s Spec) UnknownArgs(known ...string) []string {
	allowed := make(map[string]struct{}, len(known))
	for _, k := range known {
		allowed[k] = struct{}{}
	}
	var unknown []string
	for name := range s.Arguments {
		if _, ok := allowed[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}
