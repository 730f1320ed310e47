// Package models defines the core data types shared by the store,
// the categorizer and the ledger pipeline.
package models

// Direction tells whether a transaction moves money in or out.
type Direction int

const (
	// Expense is money spent (negative ledger amount).
	Expense Direction = iota
	// Income is money received (ledger amount >= 0).
	Income
)

// String returns the lower-case display name used in logs and prompts.
func (d Direction) String() string {
	if d == Income {
		return "income"
	}
	return "expense"
}

// Incoming reports the direction as the 0/1 flag used by the output file
// and the store schema.
func (d Direction) Incoming() bool {
	return d == Income
}

// Category is one selectable category of a single direction. The id is
// assigned by the store and is stable for the lifetime of the store file.
type Category struct {
	ID        int64
	Name      string
	Direction Direction
}

// Transaction carries the contextual fields of one ledger row, exactly as
// they appear in the bank export. It is shown to the operator (or an AI
// resolver) when a description has no stored association yet.
type Transaction struct {
	Date        string // Maksupäivä
	Amount      string // Summa, decimal comma, signed
	Type        string // Tapahtumalaji
	Payer       string // Maksaja
	Description string // Saajan nimi, the categorization key
	Message     string // Viesti
}
