package categorizer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"pankki-csv/internal/models"
)

// ConsoleResolver asks the operator for a category id on the terminal. It
// prints the ordered category listing for the direction and the six
// contextual fields of the transaction, then blocks for one line of input.
type ConsoleResolver struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsoleResolver creates a resolver reading from in and writing to out.
// Nil arguments default to stdin and stdout.
func NewConsoleResolver(in io.Reader, out io.Writer) *ConsoleResolver {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleResolver{in: bufio.NewReader(in), out: out}
}

// Resolve prompts for and returns one raw reply line.
func (r *ConsoleResolver) Resolve(_ context.Context, dir models.Direction, categories []models.Category, tx models.Transaction) (string, error) {
	fmt.Fprintf(r.out, "Available %s categories:\n", dir)
	for _, c := range categories {
		fmt.Fprintf(r.out, "%d: %s\n", c.ID, c.Name)
	}

	fmt.Fprintln(r.out, "\nTransaction details:")
	fmt.Fprintf(r.out, "Maksupäivä: %s\n", tx.Date)
	fmt.Fprintf(r.out, "Summa: %s\n", tx.Amount)
	fmt.Fprintf(r.out, "Tapahtumalaji: %s\n", tx.Type)
	fmt.Fprintf(r.out, "Maksaja: %s\n", tx.Payer)
	fmt.Fprintf(r.out, "Saajan nimi: %s\n", tx.Description)
	fmt.Fprintf(r.out, "Viesti: %s\n", tx.Message)
	fmt.Fprint(r.out, "Please enter a category ID for this transaction: ")

	line, err := r.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read category selection: %w", err)
	}
	return strings.TrimSpace(line), nil
}
