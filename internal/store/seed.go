package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultExpenseCategories is the fixed seed list for a brand-new store,
// in id order within the expense direction.
var defaultExpenseCategories = []string{
	"Housing and Utilities",
	"Transportation",
	"Groceries",
	"Cafes & Restaurants",
	"Personal Care",
	"Healthcare",
	"Entertainment",
	"Debt Payments",
	"Savings and Investments",
	"Gifts and Donations",
	"Insurance",
	"Utilities",
	"Miscellaneous",
	"Uncategorized",
}

// defaultIncomeCategories is the fixed income seed list. Income is seeded
// before expense so that "Salary" gets id 1.
var defaultIncomeCategories = []string{
	"Salary",
	"Interaccount transfer",
	"Direct transfer",
	"Debt returnal",
}

// seedConfig is the optional categories.yaml override for the seed lists.
type seedConfig struct {
	Income  []string `yaml:"income"`
	Expense []string `yaml:"expense"`
}

// loadSeed returns the category names to seed a fresh store with. When path
// names a readable YAML file its lists replace the built-in defaults; an
// empty path or a missing file means the defaults.
func loadSeed(path string) (income, expense []string, err error) {
	if path == "" {
		return defaultIncomeCategories, defaultExpenseCategories, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultIncomeCategories, defaultExpenseCategories, nil
		}
		return nil, nil, fmt.Errorf("error reading categories file: %w", err)
	}

	var cfg seedConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("error parsing categories file: %w", err)
	}

	income = cfg.Income
	expense = cfg.Expense
	if len(income) == 0 {
		income = defaultIncomeCategories
	}
	if len(expense) == 0 {
		expense = defaultExpenseCategories
	}
	return income, expense, nil
}
