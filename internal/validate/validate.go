// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks the user-supplied search term and year range before
// any count query is issued. Every function here is pure.
package validate

import (
	"strconv"
	"strings"

	"github.com/pdiddy/research-trends/pkg/types"
)

// Kind classifies a validation failure.
type Kind int

const (
	EmptyField Kind = iota + 1
	NotANumber
	RangeReversed
	OutOfBounds
)

var kindNames = map[Kind]string{
	EmptyField:    "empty_field",
	NotANumber:    "not_a_number",
	RangeReversed: "range_reversed",
	OutOfBounds:   "out_of_bounds",
}

var kindMessages = map[Kind]string{
	EmptyField:    "Please fill all input fields",
	NotANumber:    "Please enter a positive number as Start Year and/or Finish Year",
	RangeReversed: "Please ensure Finish Year is after Start Year",
	OutOfBounds:   "Please enter an year between 0AD-2021AD",
}

// String returns a stable identifier for the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ValidationError is returned by Inputs. Its Error text is the warning shown
// to the user verbatim.
type ValidationError struct {
	Kind Kind
}

func (e *ValidationError) Error() string {
	return kindMessages[e.Kind]
}

// Is matches any ValidationError of the same kind, so the sentinels below
// work with errors.Is.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

var (
	ErrEmptyField    = &ValidationError{Kind: EmptyField}
	ErrNotANumber    = &ValidationError{Kind: NotANumber}
	ErrRangeReversed = &ValidationError{Kind: RangeReversed}
	ErrOutOfBounds   = &ValidationError{Kind: OutOfBounds}
)

// Inputs validates the raw form values. Checks run in order and the first
// failure wins: empty field, non-numeric year, reversed range, out of bounds.
// On success it returns the parsed range and the formatted search term.
func Inputs(startYear, finishYear, searchTerm string) (types.YearRange, types.SearchTerm, error) {
	if searchTerm == "" || startYear == "" || finishYear == "" {
		return types.YearRange{}, "", ErrEmptyField
	}

	if !IsNumeric(startYear) || !IsNumeric(finishYear) {
		return types.YearRange{}, "", ErrNotANumber
	}

	// Compared as digit strings so values too large for an int still order
	// correctly.
	if compareDigits(startYear, finishYear) >= 0 {
		return types.YearRange{}, "", ErrRangeReversed
	}

	start, err := strconv.Atoi(startYear)
	if err != nil {
		// Digit-only strings only fail to parse on overflow.
		return types.YearRange{}, "", ErrOutOfBounds
	}
	finish, err := strconv.Atoi(finishYear)
	if err != nil {
		return types.YearRange{}, "", ErrOutOfBounds
	}

	// finish < 0 is not checked: it is unreachable once start >= 0 and
	// start < finish hold.
	if start < 0 || start > types.MaxYear || finish > types.MaxYear {
		return types.YearRange{}, "", ErrOutOfBounds
	}

	term := FormatTerm(searchTerm)
	if term == "" {
		return types.YearRange{}, "", ErrEmptyField
	}

	return types.YearRange{Start: start, Finish: finish}, term, nil
}

// IsNumeric reports whether every character of s is an ASCII decimal digit.
// Surrounding whitespace is not tolerated. The empty string is numeric.
func IsNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// compareDigits compares two non-empty decimal digit strings by value.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// FormatTerm trims s and encodes its first space as '+'. Later spaces are
// left untouched; the query builder escapes them.
func FormatTerm(s string) types.SearchTerm {
	return types.SearchTerm(strings.Replace(strings.TrimSpace(s), " ", "+", 1))
}
