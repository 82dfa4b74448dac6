package report

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoMatch is matched by every *NoMatchError.
var ErrNoMatch = errors.New("no matching data")

// NoMatchError reports that a user filter selected nothing. It is a "no
// data" answer rather than a failure; callers show a neutral message.
type NoMatchError struct {
	Filter string
	Value  string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no %s found matching %q", e.Filter, e.Value)
}

// Is makes errors.Is(err, ErrNoMatch) succeed.
func (e *NoMatchError) Is(target error) bool {
	return target == ErrNoMatch
}

// AmbiguousError reports that a partial filter matched more than one value.
type AmbiguousError struct {
	Filter     string
	Value      string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%q matches %d %ss: %s", e.Value, len(e.Candidates), e.Filter, strings.Join(e.Candidates, ", "))
}
