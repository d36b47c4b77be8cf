package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"pantry"
)

func (a *app) newRecommendCmd() *cobra.Command {
	var (
		pantryPath string
		listed     []string
		now        string
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend items that are low or expiring soon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.v.BindPFlag(cfgKeyLowStock, cmd.Flags().Lookup("low-stock")); err != nil {
				return err
			}
			if err := a.v.BindPFlag(cfgKeyExpDays, cmd.Flags().Lookup("exp-days")); err != nil {
				return err
			}
			at, err := parseNow(now)
			if err != nil {
				return err
			}
			items, err := loadPantryFile(pantryPath)
			if err != nil {
				return err
			}
			return printItems(cmd.OutOrStdout(), pantry.Recommend(items, listed, recommendSettings(a.v), at))
		},
	}
	cmd.Flags().StringVar(&pantryPath, "pantry", "pantry-items.yaml", "pantry items file")
	cmd.Flags().StringSliceVar(&listed, "listed", nil, "names already on a shopping list")
	cmd.Flags().Float64("low-stock", pantry.DefaultLowStock, "recommend at or below this quantity")
	cmd.Flags().Int("exp-days", pantry.DefaultExpDays, "recommend when expiring within this many days")
	cmd.Flags().StringVar(&now, "now", "", "evaluate as of this date (YYYY-MM-DD)")
	_ = cmd.Flags().MarkHidden("now")
	return cmd
}

func (a *app) newRestockCmd() *cobra.Command {
	var (
		pantryPath string
		auto       bool
		listed     []string
	)
	cmd := &cobra.Command{
		Use:   "restock",
		Short: "List items whose restock rule fires",
		Long: `restock lists the items whose restock trigger or par level fires. With
--auto it prints the lines to add to the restock shopping list instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadPantryFile(pantryPath)
			if err != nil {
				return err
			}
			if !auto {
				return printItems(cmd.OutOrStdout(), pantry.LowStock(items))
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, si := range pantry.AutoRestock(items, listed) {
				fmt.Fprintf(w, "%s\t%s\n", si.Name, formatAmount(si.Quantity, si.Unit))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&pantryPath, "pantry", "pantry-items.yaml", "pantry items file")
	cmd.Flags().BoolVar(&auto, "auto", false, "print the restock shopping list")
	cmd.Flags().StringSliceVar(&listed, "listed", nil, "names already on the shopping list")
	return cmd
}

func parseNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: %w", s, err)
	}
	return t, nil
}

func printItems(out io.Writer, items []pantry.Item) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, it := range items {
		exp := "-"
		if it.Expiration != nil {
			exp = it.Expiration.Format(time.DateOnly)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", it.Name, formatAmount(it.Quantity, it.Unit), exp)
	}
	return w.Flush()
}
