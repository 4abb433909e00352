package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ShayestehHS/apidock/internal/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "apidock",
		Short: "apidock - documentation portal generator for OpenAPI services",
		Long: `apidock merges a hand-written override document into a generated OpenAPI 3
schema, builds a browsable endpoint index with faceted filtering, and serves
a "try it out" console that executes real requests against the documented
service.`,
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(buildCmd)
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}

		// Search config in current directory
		viper.AddConfigPath(cwd)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("APIDOCK")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults sets the default configuration values
func setDefaults() {
	defaults := config.Default()

	viper.SetDefault("server.port", defaults.Server.Port)
	viper.SetDefault("server.host", defaults.Server.Host)

	viper.SetDefault("docs.schemaPath", defaults.Docs.SchemaPath)
	viper.SetDefault("docs.overridePath", defaults.Docs.OverridePath)
	viper.SetDefault("docs.outputDir", defaults.Docs.OutputDir)
	viper.SetDefault("docs.projectName", defaults.Docs.ProjectName)
	viper.SetDefault("docs.apps", []string{})

	viper.SetDefault("console.dataDir", defaults.Console.DataDir)
	viper.SetDefault("console.historySize", defaults.Console.HistorySize)
	viper.SetDefault("console.debounce", defaults.Console.Debounce)
	viper.SetDefault("console.authCommand", "")
	viper.SetDefault("console.authTimeout", defaults.Console.AuthTimeout)
	viper.SetDefault("console.defaultHost", "")

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.format", defaults.Logging.Format)
}

// loadConfig assembles the effective configuration. An explicit --config
// path is parsed strictly; otherwise values come through viper so flags
// and APIDOCK_* environment variables apply.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port: viper.GetInt("server.port"),
			Host: viper.GetString("server.host"),
		},
		Docs: config.DocsConfig{
			SchemaPath:   viper.GetString("docs.schemaPath"),
			OverridePath: viper.GetString("docs.overridePath"),
			OutputDir:    viper.GetString("docs.outputDir"),
			ProjectName:  viper.GetString("docs.projectName"),
			Apps:         viper.GetStringSlice("docs.apps"),
		},
		Console: config.ConsoleConfig{
			DataDir:     viper.GetString("console.dataDir"),
			HistorySize: viper.GetInt("console.historySize"),
			Debounce:    viper.GetDuration("console.debounce"),
			AuthCommand: viper.GetString("console.authCommand"),
			AuthTimeout: viper.GetDuration("console.authTimeout"),
			DefaultHost: viper.GetString("console.defaultHost"),
		},
		Logging: config.LoggingConfig{
			Level:  viper.GetString("logging.level"),
			Format: viper.GetString("logging.format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
