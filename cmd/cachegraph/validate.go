package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cachegraph/cachegraph/internal/cli/config"
	"github.com/cachegraph/cachegraph/internal/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate schema documents",
	Long: `Parse every schema document in a directory, register it, and report
structural violations. The directory defaults to schema_dir from
cachegraph.yml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer log.Sync()

		dir := cfg.SchemaDir
		if len(args) > 0 {
			dir = args[0]
		}

		schemas, err := schema.LoadDirectory(dir)
		if err != nil {
			return err
		}
		if len(schemas) == 0 {
			return fmt.Errorf("no schema documents found in %s", dir)
		}

		registry := schema.NewRegistry()
		failed := 0
		for _, s := range schemas {
			if err := registry.Register(s); err != nil {
				failed++
				color.Red("✗ %s", s.Type)
				fmt.Println("  " + err.Error())
				continue
			}
			color.Green("✓ %s", s.Type)
		}

		if err := registry.ValidateAll(); err != nil {
			failed++
			color.Red("✗ cross-schema checks")
			fmt.Println("  " + err.Error())
		}
		for _, w := range registry.Warnings() {
			color.Yellow("  warning: %s", w)
		}

		log.Info("validation complete",
			zap.String("dir", dir),
			zap.Int("schemas", len(schemas)),
			zap.Int("failed", failed))

		if failed > 0 {
			return fmt.Errorf("%d schema(s) failed validation", failed)
		}
		return nil
	},
}
