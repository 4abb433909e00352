package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ShayestehHS/apidock/internal/docs"
	"github.com/ShayestehHS/apidock/internal/logging"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the documentation payloads",
	Long: `Merges the override document into the generated OpenAPI schema,
validates the result, and writes the documentation payloads:

  - one JSON document per endpoint with request/response examples
  - one index per app, endpoints grouped by view
  - query parameter suggestions per operation
  - permission pages

Any invalid override (unknown operation id, missing queryparam_type on a
query parameter) aborts the build with the offending id.`,
	RunE: runBuild,
}

var outputFlag string

func init() {
	buildCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Override output directory")

	viper.BindPFlag("docs.outputDir", buildCmd.Flags().Lookup("output"))
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outputFlag != "" {
		cfg.Docs.OutputDir = outputFlag
	}

	logger := logging.New(cfg.Logging)

	merged, index, err := buildIndex(cfg)
	if err != nil {
		return err
	}
	logger.Info().
		Int("endpoints", len(index)).
		Str("schema", cfg.Docs.SchemaPath).
		Msg("schema merged and validated")

	writer := docs.NewWriter(cfg.Docs.OutputDir)
	if err := writer.WriteAll(merged, index); err != nil {
		return err
	}

	logger.Info().Str("output", cfg.Docs.OutputDir).Msg("documentation payloads written")
	return nil
}
