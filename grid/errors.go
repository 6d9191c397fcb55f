package grid

import "fmt"

// invariantError reports a violated structural invariant, surfaced only
// through CheckInvariants (tests/debug assertions) — normal operation never
// returns an error, matching spec §4.1's "no operation fails" contract.
type invariantError struct {
	msg string
	at  int
}

func (e *invariantError) Error() string {
	return fmt.Sprintf("grid: invariant violated: %s %d", e.msg, e.at)
}

func errInvariant(msg string, at int) error {
	return &invariantError{msg: msg, at: at}
}
