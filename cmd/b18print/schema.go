package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/b18print/internal/manifest"
)

var flagSchemaOut string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Write the manifest JSON schema",
	Long: `Reflect the JSON schema of the board18 manifest. Without --out the schema
is printed to stdout.

Examples:
  b18print schema
  b18print schema --out docs/manifest.schema.json`,
	Args: cobra.NoArgs,
	Run:  runSchema,
}

func init() {
	schemaCmd.Flags().StringVar(&flagSchemaOut, "out", "", "Write the schema to this file")
}

func runSchema(cmd *cobra.Command, _ []string) {
	if flagSchemaOut != "" {
		if err := manifest.WriteSchema(flagSchemaOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Schema written to %s\n", flagSchemaOut)
		return
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest.Schema()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
