package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage dwverify configuration",
	Long: `Manage dwverify configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (DWVERIFY_*)
3. Config file (~/.dwverify/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if file := viper.ConfigFileUsed(); file != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", file)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		// Keys never leave the machine via config show.
		for i := range cfg.Search.Providers {
			cfg.Search.Providers[i].APIKey = redact(cfg.Search.Providers[i].APIKey)
		}
		for i := range cfg.Social.Platforms {
			cfg.Social.Platforms[i].APIKey = redact(cfg.Social.Platforms[i].APIKey)
		}
		cfg.LLM.APIKey = redact(cfg.LLM.APIKey)

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a default configuration file",
	Long:  `Create a default configuration file at ~/.dwverify/config.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}

		configDir := home + "/.dwverify"
		configPath := configDir + "/config.yaml"

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'dwverify config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("create config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		cfg := model.DefaultConfig()
		// Seed provider entries so a fresh file documents the shape.
		cfg.Search.Providers = []model.ProviderConfig{
			{Name: "newsapi", Endpoint: "https://example.invalid/search", APIKey: "", Rate: 1, Burst: 2},
			{Name: "archive", Endpoint: "https://example.invalid/archive", APIKey: "", Rate: 0.5, Burst: 1, Escalation: true},
		}
		cfg.Social.Platforms = []model.PlatformConfig{
			{Name: "twitter", Endpoint: "https://example.invalid/social/twitter", APIKey: ""},
			{Name: "reddit", Endpoint: "https://example.invalid/social/reddit", APIKey: ""},
		}

		header := `# DWVerify configuration
#
# Hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (DWVERIFY_*)
#   3. This config file
#   4. Built-in defaults
#
# Replace the example.invalid endpoints with real provider gateways.

`
		if _, err := f.WriteString(header); err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		if _, err := f.Write(out); err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		fmt.Printf("Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the effective configuration:\n  dwverify config show\n")
		return nil
	},
}

func redact(key string) string {
	if key == "" {
		return ""
	}
	return "<redacted>"
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
