package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/FieldInspect/internal/core"
	"github.com/JonMunkholm/FieldInspect/internal/inventory"
	"github.com/JonMunkholm/FieldInspect/internal/report"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export inventory and reports as CSV",
		Long: `Writes the same CSV files the dashboard offers for download.

Available subcommands:
  inventory <network> - Inventory rows narrowed by level selections
  report <network>    - Detailed report with last inspection and inspector
  logins              - First login per user and day with punctuality`,
	}
	cmd.AddCommand(newExportInventoryCmd(), newExportReportCmd(), newExportLoginsCmd())
	return cmd
}

// exportOptions are the flags shared by every export.
type exportOptions struct {
	output string
	search string
}

func (o *exportOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVar(&o.search, "search", "", "free-text filter")
}

func newExportInventoryCmd() *cobra.Command {
	var (
		opts   exportOptions
		levels map[string]string
	)
	cmd := &cobra.Command{
		Use:   "inventory <tdm|ftth>",
		Short: "Export a network's inventory",
		Example: `  inspectctl export inventory tdm --level sector="Zagazig East" --level region=Hehya
  inspectctl export inventory ftth --search 3slsh -o ftth.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := inventory.Lookup(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			items, err := a.service.Inventory(cmd.Context(), def.Network)
			if err != nil {
				return err
			}
			c, err := cascadeFromLevels(def, levels)
			if err != nil {
				return err
			}
			if dropped := c.Normalize(items); len(dropped) > 0 {
				return fmt.Errorf("no %s inventory matches the selection at %s", def.Label, dropped[0].Label())
			}

			w, closeOut, err := output(cmd, opts.output)
			if err != nil {
				return err
			}
			if err := report.WriteInventory(w, def, def.Search(c.Filter(items), opts.search)); err != nil {
				closeOut()
				return err
			}
			return closeOut()
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringToStringVar(&levels, "level", nil, "select a hierarchy level as field=value (repeatable)")
	return cmd
}

// cascadeFromLevels applies selections outermost first regardless of
// flag order.
func cascadeFromLevels(def inventory.Definition, levels map[string]string) (*inventory.Cascade, error) {
	c := def.NewCascade()
	known := make(map[inventory.Field]bool, len(c.Levels()))
	for _, f := range c.Levels() {
		known[f] = true
	}
	for k := range levels {
		if !known[inventory.Field(k)] {
			return nil, fmt.Errorf("%s has no level %q", def.Label, k)
		}
	}
	for _, f := range c.Levels() {
		if v := levels[string(f)]; v != "" {
			if err := c.Select(f, v); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func newExportReportCmd() *cobra.Command {
	var (
		opts   exportOptions
		filter report.InventoryFilter
		status string
	)
	cmd := &cobra.Command{
		Use:   "report <tdm|ftth>",
		Short: "Export a network's detailed inspection report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := inventory.ParseNetwork(args[0])
			if err != nil {
				return err
			}
			switch st := inventory.VisitStatus(status); st {
			case "", inventory.Done, inventory.Pending:
				filter.Status = st
			default:
				return fmt.Errorf("invalid status %q: use Done or Pending", status)
			}
			filter.Search = opts.search

			a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			sn, err := a.service.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			rep := report.BuildInventoryReport(sn, n, filter)

			w, closeOut, err := output(cmd, opts.output)
			if err != nil {
				return err
			}
			if err := report.WriteInventoryReport(w, n, rep.Rows); err != nil {
				closeOut()
				return err
			}
			return closeOut()
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&filter.Sector, "sector", "", "only this sector")
	cmd.Flags().StringVar(&filter.Region, "region", "", "only this region")
	cmd.Flags().StringVar(&filter.MainExchange, "main-exchange", "", "only this main exchange")
	cmd.Flags().StringVar(&filter.InspectorID, "inspector", "", "only items last inspected by this user ID")
	cmd.Flags().StringVar(&status, "status", "", "Done or Pending")
	return cmd
}

func newExportLoginsCmd() *cobra.Command {
	var (
		opts   exportOptions
		filter report.LoginFilter
		status string
	)
	cmd := &cobra.Command{
		Use:   "logins",
		Short: "Export the daily first-login report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch st := report.Punctuality(status); st {
			case "", report.OnTime, report.Delayed:
				filter.Status = st
			default:
				return fmt.Errorf("invalid status %q: use %q or %q", status, report.OnTime, report.Delayed)
			}
			for _, d := range []string{filter.Start, filter.End} {
				if d == "" {
					continue
				}
				if _, err := time.Parse(core.DateLayout, d); err != nil {
					return fmt.Errorf("invalid date %q: use YYYY-MM-DD", d)
				}
			}
			filter.Search = opts.search

			a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			events, err := a.service.ListLoginEvents(cmd.Context())
			if err != nil {
				return err
			}
			rows := filter.Apply(report.LoginReport(events, a.service.Location(), a.cutoff))

			w, closeOut, err := output(cmd, opts.output)
			if err != nil {
				return err
			}
			if err := report.WriteLoginReport(w, rows); err != nil {
				closeOut()
				return err
			}
			return closeOut()
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&filter.UserID, "user", "", "only this user ID")
	cmd.Flags().StringVar(&status, "status", "", `"On Time" or "Delayed"`)
	cmd.Flags().StringVar(&filter.Start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&filter.End, "end", "", "last day, YYYY-MM-DD")
	return cmd
}
