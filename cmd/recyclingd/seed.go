package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var seedOut string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Print the generated seed data as YAML",
	Long: `Generates the catalogue, devices, alerts, tasks and maintenance plan
exactly as the server would at startup and writes them as YAML.

Example:
  recyclingd seed --out seed.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if seedOut != "" {
			f, err := os.Create(seedOut)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", seedOut, err)
			}
			defer f.Close()
			out = f
		}

		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(buildSeed(cfg.Simulator, time.Now())); err != nil {
			return fmt.Errorf("failed to encode seed: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedOut, "out", "o", "", "write to file instead of stdout")
}
