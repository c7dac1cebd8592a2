package category

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type seed struct {
	Income  []Category `yaml:"income"`
	Expense []Category `yaml:"expense"`
}

// Defaults returns the categories a fresh ledger starts with.
func Defaults() (income, expense []Category, err error) {
	var s seed
	if err := yaml.Unmarshal(defaultsYAML, &s); err != nil {
		return nil, nil, fmt.Errorf("parsing default categories: %w", err)
	}

	return withType(s.Income, TypeIncome), withType(s.Expense, TypeExpense), nil
}
