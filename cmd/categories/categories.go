// Package categories implements category management: listing, adding,
// renaming and removing categories of either direction.
package categories

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pankki-csv/cmd/root"
	"pankki-csv/internal/models"
	"pankki-csv/internal/store"
)

var income bool

// Cmd represents the categories command group
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage income and expense categories",
	Long: `Manage the categories stored in the category database. All
subcommands operate on expense categories by default; pass --income to work
on income categories instead.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories of one direction in id order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.SQLiteStore) error {
			dir := direction()
			categories, err := s.ListCategories(cmd.Context(), dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Available %s categories:\n", dir)
			for _, c := range categories {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", c.ID, c.Name)
			}
			return nil
		})
	},
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.SQLiteStore) error {
			id, err := s.AddCategory(cmd.Context(), direction(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s category %d: %s\n", direction(), id, args[0])
			return nil
		})
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <id> <new-name>",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category id %q", args[0])
		}
		return withStore(func(s *store.SQLiteStore) error {
			if err := s.RenameCategory(cmd.Context(), direction(), id, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category %d has been renamed to %s\n", id, args[1])
			return nil
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a category and forget associations pointing at it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category id %q", args[0])
		}
		return withStore(func(s *store.SQLiteStore) error {
			if err := s.RemoveCategory(cmd.Context(), direction(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category %d has been deleted\n", id)
			return nil
		})
	},
}

func init() {
	Cmd.PersistentFlags().BoolVar(&income, "income", false, "Operate on income categories instead of expense categories")
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(renameCmd)
	Cmd.AddCommand(removeCmd)
}

func direction() models.Direction {
	if income {
		return models.Income
	}
	return models.Expense
}

func withStore(fn func(*store.SQLiteStore) error) error {
	cfg := root.Cfg
	s, err := store.OpenSQLite(cfg.Store.Path, cfg.Store.CategoriesFile, root.Log)
	if err != nil {
		return fmt.Errorf("open category store: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close category store")
		}
	}()
	return fn(s)
}
