// Package analyze implements the analyze command: the full streaming
// categorize-and-aggregate run over one ledger file.
package analyze

import (
	"fmt"

	"github.com/spf13/cobra"

	"pankki-csv/cmd/root"
	"pankki-csv/internal/categorizer"
	"pankki-csv/internal/pipeline"
	"pankki-csv/internal/report"
	"pankki-csv/internal/store"
)

var (
	inputFile   string
	outputFile  string
	summaryFile string
)

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze [ledger.csv]",
	Short: "Categorize a bank ledger export and report totals per category",
	Long: `Analyze streams a semicolon-delimited bank export row by row. Known
descriptions are categorized from the store; unknown ones are resolved
interactively (or by the Gemini resolver when ai.enabled is set) and the
choice is remembered. An augmented copy of the ledger is written with
'incoming' and 'category' columns appended, and totals per category are
printed at the end.`,
	Args: cobra.MaximumNArgs(1),
	RunE: analyzeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input ledger file")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default from config, out.csv)")
	Cmd.Flags().StringVar(&summaryFile, "summary", "", "Optional CSV file for the totals summary")
}

func analyzeFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := root.Cfg

	input := inputFile
	if input == "" && len(args) > 0 {
		input = args[0]
	}
	if input == "" {
		return fmt.Errorf("input ledger file is required (flag -i or positional argument)")
	}

	output := outputFile
	if output == "" {
		output = cfg.Output.Default
	}

	st, err := store.OpenSQLite(cfg.Store.Path, cfg.Store.CategoriesFile, root.Log)
	if err != nil {
		return fmt.Errorf("open category store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close category store")
		}
	}()

	var resolver categorizer.Resolver
	if cfg.AI.Enabled {
		gemini, err := categorizer.NewGeminiResolver(ctx, cfg.AI.APIKey, cfg.AI.Model, root.Log)
		if err != nil {
			return fmt.Errorf("create Gemini resolver: %w", err)
		}
		defer func() {
			if err := gemini.Close(); err != nil {
				root.Log.WithError(err).Warn("Failed to close Gemini client")
			}
		}()
		resolver = gemini
	} else {
		resolver = categorizer.NewConsoleResolver(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	cat := categorizer.New(st, resolver, root.Log)
	p := pipeline.New(cat, st, cfg.Delimiter(), root.Log)

	summary, err := p.RunFiles(ctx, input, output)
	if err != nil {
		// Rows written before the failure stay in the output file.
		return fmt.Errorf("ledger run aborted: %w", err)
	}

	if err := report.Render(ctx, cmd.OutOrStdout(), summary, st); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if summaryFile != "" {
		rows, err := report.BuildRows(ctx, summary, st)
		if err != nil {
			return fmt.Errorf("build summary rows: %w", err)
		}
		if err := report.WriteSummaryCSV(rows, summaryFile, cfg.Delimiter(), root.Log); err != nil {
			return fmt.Errorf("write summary CSV: %w", err)
		}
	}

	return nil
}
