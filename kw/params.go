// Copyright 2026 Strata ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package kw implements keyword-argument calls: operations take a named
// parameter map and dispatch to an implementation by which parameters are
// present.
package kw

import "fmt"

// Params is the keyword-argument map of a call. Keys are parameter names;
// values are whatever the operation expects under each name.
type Params map[string]any

// Has reports whether a key is present, regardless of its value.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// HasAll reports whether every key is present.
func (p Params) HasAll(keys ...string) bool {
	for _, key := range keys {
		if !p.Has(key) {
			return false
		}
	}
	return true
}

// Int returns the value under key as an int. Missing keys and non-int
// values are errors.
func (p Params) Int(key string) (int, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("missing parameter %q", key)
	}
	i, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("parameter %q: expected int, got %T", key, v)
	}
	return i, nil
}

// Bool returns the value under key as a bool.
func (p Params) Bool(key string) (bool, error) {
	v, ok := p[key]
	if !ok {
		return false, fmt.Errorf("missing parameter %q", key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("parameter %q: expected bool, got %T", key, v)
	}
	return b, nil
}

// Float64 returns the value under key as a float64. Int values are widened.
func (p Params) Float64(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("missing parameter %q", key)
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("parameter %q: expected number, got %T", key, v)
	}
}

// String returns the value under key as a string.
func (p Params) String(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("missing parameter %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q: expected string, got %T", key, v)
	}
	return s, nil
}
