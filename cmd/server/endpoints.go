package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"nc-news/internal/config"
)

var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "Print the endpoint catalog served on GET /api",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		catalog, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(catalog.Document())
		if err != nil {
			return fmt.Errorf("encode catalog: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(endpointsCmd)
}
