package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-leadsite/internal/apidoc"
	"github.com/goliatone/go-leadsite/pkg/schema"
)

var openapiOutput string

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Print the OpenAPI document for the lead endpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := schema.LoadDefault()
		if err != nil {
			return err
		}
		doc, err := apidoc.Build(commandContext(cmd), store, apidoc.Info{
			Title:     cfg.Site.Name + " lead API",
			Version:   appVersion,
			ServerURL: cfg.Site.URL,
		})
		if err != nil {
			return err
		}
		raw, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		raw = append(raw, '\n')

		if openapiOutput == "" {
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		}
		if err := os.WriteFile(openapiOutput, raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", openapiOutput, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OpenAPI document written to %s\n", openapiOutput)
		return nil
	},
}

func init() {
	openapiCmd.Flags().StringVarP(&openapiOutput, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(openapiCmd)
}
