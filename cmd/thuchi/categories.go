package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/likexephinh-dev/ThuChiPro/internal/category"
)

func (c *cli) categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect income and expense categories",
	}

	cmd.AddCommand(c.listCategoriesCmd())

	return cmd
}

func (c *cli) listCategoriesCmd() *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			types := []category.Type{category.TypeIncome, category.TypeExpense}
			if typ != "" {
				t := category.Type(typ)
				if !t.Valid() {
					return fmt.Errorf("unknown category type %q", typ)
				}

				types = []category.Type{t}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()

			headerStyle := lipgloss.NewStyle().Bold(true)
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				headerStyle.Render("ID"),
				headerStyle.Render("TYPE"),
				headerStyle.Render("NAME"))
			fmt.Fprintf(w, "%s\t%s\t%s\n", strings.Repeat("-", 10), strings.Repeat("-", 7), strings.Repeat("-", 20))

			for _, t := range types {
				for _, cat := range c.session().Categories(t) {
					fmt.Fprintf(w, "%s\t%s\t%s\n", cat.ID, cat.Type, cat.Name)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "only list categories of this type (income, expense)")

	return cmd
}
