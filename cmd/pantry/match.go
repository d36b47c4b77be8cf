package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pantry"
)

func (a *app) newMatchCmd() *cobra.Command {
	var pantryPath, recipePath string
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Check whether the pantry covers a recipe",
		Long: `match sums the pantry quantities of every recipe ingredient, converted
into the ingredient's unit, and compares the total with what the recipe needs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadPantryFile(pantryPath)
			if err != nil {
				return err
			}
			recipe, err := loadRecipeFile(recipePath)
			if err != nil {
				return err
			}

			rm := pantry.NewMatcher(a.conv).MatchRecipe(pantry.NewPantry(items), recipe.Ingredients)

			out := cmd.OutOrStdout()
			if recipe.Title != "" {
				fmt.Fprintln(out, recipe.Title)
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, r := range rm.Results {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Ingredient.Name, r.Status(), describeResult(r))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if rm.CanMake() {
				fmt.Fprintln(out, "can make: yes")
				return nil
			}
			fmt.Fprintln(out, "can make: no")
			fmt.Fprintln(out, "shopping list:")
			for _, ing := range rm.Missing() {
				fmt.Fprintf(out, "  %s\n", pantry.ShoppingLabel(ing))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pantryPath, "pantry", "pantry-items.yaml", "pantry items file")
	cmd.Flags().StringVar(&recipePath, "recipe", "", "recipe file")
	_ = cmd.MarkFlagRequired("recipe")
	return cmd
}

func describeResult(r pantry.MatchResult) string {
	var ie *pantry.IncompatibleUnitsError
	if errors.As(r.Err, &ie) {
		return fmt.Sprintf("cannot compare %q with %q", ie.From, ie.To)
	}
	if !r.Present {
		return "-"
	}
	have := formatAmount(r.ConvertedTotal, r.Ingredient.Unit)
	if r.Ingredient.Amount == nil {
		return have
	}
	s := have + " / " + formatAmount(*r.Ingredient.Amount, r.Ingredient.Unit)
	if r.Uncertain {
		s += " (approximate)"
	}
	return s
}

func formatAmount(v float64, u pantry.Unit) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if u == "" {
		return s
	}
	return s + " " + string(u)
}
