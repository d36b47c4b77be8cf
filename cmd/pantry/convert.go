package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pantry"
)

func (a *app) newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <quantity> <from> <to>",
		Short: "Convert a quantity between units",
		Example: `  pantry convert 500 g kg
  pantry convert 16 oz lb`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[0], err)
			}
			to := pantry.Unit(args[2])
			out, err := a.conv.Convert(qty, pantry.Unit(args[1]), to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", strconv.FormatFloat(out, 'f', -1, 64), to)
			return nil
		},
	}
}

func (a *app) newUnitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List recognized units and their categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, u := range pantry.Units() {
				fmt.Fprintf(w, "%s\t%s\n", u, a.conv.Category(u))
			}
			for _, name := range a.customUnitNames() {
				fmt.Fprintf(w, "%s\t%s\n", name, a.conv.Category(pantry.Unit(name)))
			}
			return w.Flush()
		},
	}
}

func (a *app) customUnitNames() []string {
	var units []unitConfig
	if err := a.v.UnmarshalKey(cfgKeyUnits, &units); err != nil {
		return nil
	}
	names := make([]string, 0, len(units))
	for _, u := range units {
		names = append(names, u.Name)
	}
	return names
}
