package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/roffe/gaugepanel/pkg/units"
	"github.com/roffe/gaugepanel/pkg/widgets"
)

var (
	errNoUnit         = errors.New("path has no known unit")
	errNotAnalog      = errors.New("thresholds are only editable on the analog display")
	errUnknownVariant = errors.New("unknown display mode")
	errUnknownField   = errors.New("unknown threshold")
)

func unitsCmd() *cli.Command {
	return &cli.Command{
		Name:      "units",
		Usage:     "List the unit conversions offered for each base unit",
		ArgsUsage: "[base]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			reg := units.Default()
			bases := reg.Bases()
			if base := cmd.Args().First(); base != "" {
				if _, ok := reg.Lookup(base); !ok {
					return fmt.Errorf("no conversions for %q", base)
				}
				bases = []string{base}
			}
			w := cmd.Root().Writer
			for _, base := range bases {
				table, _ := reg.Lookup(base)
				fmt.Fprintf(w, "%s: %s\n", table.Base(), strings.Join(table.Units(), ", "))
			}
			return nil
		},
	}
}

func addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a universal widget bound to a source path",
		ArgsUsage: "ID SOURCE PATH",
		Action: withApp(func(_ context.Context, cmd *cli.Command, a *app) error {
			if err := requireArgs(cmd, 3); err != nil {
				return err
			}
			args := cmd.Args()
			w, err := a.panel.Add(widgets.TypeUniversal, &widgets.Options{
				ID:       args.Get(0),
				SourceID: args.Get(1),
				Path:     args.Get(2),
			})
			if err != nil {
				return err
			}
			return printOptions(cmd.Root().Writer, w)
		}),
	}
}

func removeCmd() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove a widget",
		ArgsUsage: "ID",
		Action: withApp(func(_ context.Context, cmd *cli.Command, a *app) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}
			return a.panel.Remove(cmd.Args().First())
		}),
	}
}

func setUnitCmd() *cli.Command {
	return &cli.Command{
		Name:      "set-unit",
		Usage:     "Select the display unit of a widget",
		ArgsUsage: "ID UNIT",
		Action: withApp(func(_ context.Context, cmd *cli.Command, a *app) error {
			if err := requireArgs(cmd, 2); err != nil {
				return err
			}
			w, err := a.widget(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			s := w.Settings()
			if s.Unit == nil {
				return fmt.Errorf("%w: %q", errNoUnit, w.Options().Path)
			}
			if err := s.Unit.OnChange(cmd.Args().Get(1)); err != nil {
				return err
			}
			return printOptions(cmd.Root().Writer, w)
		}),
	}
}

func setModeCmd() *cli.Command {
	return &cli.Command{
		Name:      "set-mode",
		Usage:     "Switch a widget between the digital and analog display",
		ArgsUsage: "ID digital|analog",
		Action: withApp(func(_ context.Context, cmd *cli.Command, a *app) error {
			if err := requireArgs(cmd, 2); err != nil {
				return err
			}
			w, err := a.widget(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			v, err := parseVariant(cmd.Args().Get(1))
			if err != nil {
				return err
			}
			if err := w.Settings().Mode(v).OnChange(); err != nil {
				return err
			}
			return printOptions(cmd.Root().Writer, w)
		}),
	}
}

func setThresholdCmd() *cli.Command {
	return &cli.Command{
		Name:      "set-threshold",
		Usage:     "Set the minimum, maximum or redline of an analog gauge",
		ArgsUsage: "ID min|max|redline VALUE",
		Action: withApp(func(_ context.Context, cmd *cli.Command, a *app) error {
			if err := requireArgs(cmd, 3); err != nil {
				return err
			}
			w, err := a.widget(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			t, ok := widgets.ParseThreshold(cmd.Args().Get(1))
			if !ok {
				return fmt.Errorf("%w: %q", errUnknownField, cmd.Args().Get(1))
			}
			input := w.Settings().Threshold(t)
			if input == nil {
				return fmt.Errorf("%w: %q", errNotAnalog, w.ID())
			}
			if err := input.OnChange(cmd.Args().Get(2)); err != nil {
				return err
			}
			return printOptions(cmd.Root().Writer, w)
		}),
	}
}

func (a *app) widget(id string) (widgets.Instance, error) {
	w, ok := a.panel.Widget(id)
	if !ok {
		return nil, fmt.Errorf("no widget %q in %s", id, a.cfg.Dashboard.Path)
	}
	return w, nil
}

func parseVariant(s string) (widgets.Variant, error) {
	for _, v := range widgets.Variants {
		if strings.EqualFold(v.String(), s) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errUnknownVariant, s)
}

func printOptions(w io.Writer, inst widgets.Instance) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(inst.Options()); err != nil {
		return err
	}
	return enc.Close()
}
