package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenticmentor/mentor/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify Mentor configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/mentor/config.yaml
Project-specific overrides can be placed in .mentor.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	key, _ := config.GetAPIKey(cfg)

	fmt.Printf("anthropic.api_key: %s (%s)\n", config.MaskAPIKey(key), config.GetAPIKeySource(cfg))
	fmt.Printf("anthropic.model: %s\n", orDefault(cfg.Anthropic.Model, "(sdk default)"))
	fmt.Printf("bedrock.enabled: %t\n", cfg.Bedrock.Enabled)
	fmt.Printf("bedrock.region: %s\n", orDefault(cfg.Bedrock.Region, "(not set)"))
	fmt.Printf("bedrock.profile: %s\n", orDefault(cfg.Bedrock.Profile, "(not set)"))
	fmt.Printf("classifier.mode: %s\n", cfg.Classifier.Mode)
	fmt.Printf("store.path: %s\n", orDefault(cfg.Store.Path, "(xdg data dir)"))
	fmt.Printf("logging.debug_log: %s\n", orDefault(cfg.Logging.DebugLog, "(disabled)"))
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		k, _ := config.GetAPIKey(cfg)
		return config.MaskAPIKey(k), nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "bedrock.enabled":
		return strconv.FormatBool(cfg.Bedrock.Enabled), nil
	case "bedrock.region":
		return cfg.Bedrock.Region, nil
	case "bedrock.profile":
		return cfg.Bedrock.Profile, nil
	case "classifier.mode":
		return cfg.Classifier.Mode, nil
	case "store.path":
		return cfg.Store.Path, nil
	case "logging.debug_log":
		return cfg.Logging.DebugLog, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "bedrock.enabled":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("bedrock.enabled must be true or false")
		}
		cfg.Bedrock.Enabled = enabled
	case "bedrock.region":
		cfg.Bedrock.Region = value
	case "bedrock.profile":
		cfg.Bedrock.Profile = value
	case "classifier.mode":
		if value != config.ClassifierRules && value != config.ClassifierLLM {
			return fmt.Errorf("classifier.mode must be %q or %q", config.ClassifierRules, config.ClassifierLLM)
		}
		cfg.Classifier.Mode = value
	case "store.path":
		cfg.Store.Path = value
	case "logging.debug_log":
		cfg.Logging.DebugLog = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
