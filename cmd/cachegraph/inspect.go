package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cachegraph/cachegraph/internal/cli/config"
	"github.com/cachegraph/cachegraph/internal/cli/ui"
	"github.com/cachegraph/cachegraph/internal/schema"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <type>",
	Short: "Show the field table of a registered schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		schemas, err := schema.LoadDirectory(cfg.SchemaDir)
		if err != nil {
			return err
		}
		registry := schema.NewRegistry()
		for _, s := range schemas {
			if err := registry.Register(s); err != nil {
				return err
			}
		}

		s, err := registry.Resolve(args[0])
		if err != nil {
			if errors.Is(err, schema.ErrUnknownSchema) {
				if similar := ui.FindSimilar(args[0], registry.List()); len(similar) > 0 {
					return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(similar, ", "))
				}
			}
			return err
		}

		bold := color.New(color.Bold)
		bold.Printf("%s (%s", s.Type, s.Mode)
		if s.Legacy {
			fmt.Print(", legacy")
		}
		fmt.Println(")")
		if len(s.Traits) > 0 {
			fmt.Printf("traits: %v\n", s.Traits)
		}

		table := ui.NewTable(os.Stdout, "NAME", "KIND", "TYPE", "WRITABLE", "IDENTITY")
		for _, f := range s.Fields {
			name := f.Name
			if name == "" {
				name = "(unnamed)"
			}
			table.AddRow(name, f.Kind.String(), f.Type,
				fmt.Sprintf("%v", f.Kind.Writable()),
				fmt.Sprintf("%v", f.Kind.IdentityBearing()))
		}
		table.Render()
		return nil
	},
}
