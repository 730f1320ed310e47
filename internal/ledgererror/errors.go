// Package ledgererror defines the typed errors surfaced by the ledger
// processing pipeline and the categorizer.
package ledgererror

import "fmt"

// ParseError represents a ledger field that could not be parsed.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s='%s': %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SelectionError represents an invalid category selection: a reply that is
// not an integer, or an integer outside the ids offered for the direction.
// It is fatal for the row being categorized and is never defaulted.
type SelectionError struct {
	Reply     string
	Direction string
	Reason    string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("invalid %s category selection '%s': %s",
		e.Direction, e.Reply, e.Reason)
}

// HeaderError represents a ledger file whose header is missing one of the
// required bank-export columns.
type HeaderError struct {
	Column string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("ledger header is missing required column '%s'", e.Column)
}
