// Copyright 2026 Strata ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package kw

// Pattern is one candidate implementation of a keyword operation. A pattern
// matches when every key in Keys is present and the optional Guard accepts
// the parameters.
type Pattern struct {
	// Keys that must all be present for the pattern to match. Extra keys
	// in the call never prevent a match.
	Keys []string

	// Guard optionally refines the match beyond key presence. Nil means
	// no extra condition.
	Guard func(Params) bool

	// Call runs the matched implementation.
	Call func(Params) (any, error)
}

// matches reports whether the pattern accepts the parameters.
func (pat Pattern) matches(p Params) bool {
	if !p.HasAll(pat.Keys...) {
		return false
	}
	return pat.Guard == nil || pat.Guard(p)
}

// NoMatchError reports that no pattern of an operation matched the supplied
// parameters. The message is fixed per operation and names what the
// operation requires.
type NoMatchError struct {
	Op      string
	Message string
}

// Error renders "op: message".
func (e *NoMatchError) Error() string {
	return e.Op + ": " + e.Message
}

// Dispatch evaluates patterns in order and runs the first one that matches.
// Order is priority: an earlier pattern wins even when a later one is more
// specific, and a call carrying extra keys still takes the first pattern
// whose required keys it covers.
//
// When nothing matches, Dispatch returns a *NoMatchError with the
// operation's fixed message. Nothing is retried and no partial work is
// done.
func Dispatch(op string, p Params, patterns []Pattern, failMessage string) (any, error) {
	for _, pat := range patterns {
		if pat.matches(p) {
			return pat.Call(p)
		}
	}
	return nil, &NoMatchError{Op: op, Message: failMessage}
}
