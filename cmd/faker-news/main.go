// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the faker-news CLI, a cached fake news
// generator: headlines, intros, and articles are produced by a chat model,
// cached in SQLite, and consumed per field so the same story can serve
// several requests.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the faker-news CLI.
var rootCmd = &cobra.Command{
	Use:   "faker-news",
	Short: "Cached AI-generated fake news for realistic test data",
	Long: `faker-news serves fictional news content (headlines, intros, articles)
from a local cache, topping the cache up through an OpenAI or DashScope
model only when it runs low. Fetched content is marked used per field, so
a headline can be consumed while its intro stays available for a later
pairing.

Fetch content with the headline, intro, and article commands; manage the
cache with preload, populate, stats, and reset.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./faker-news.yaml or ~/.config/faker-news/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "cache database file (default: ./faker-news.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("faker-news")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "faker-news"))
		}
	}

	viper.SetDefault("db", "faker-news.db")
	viper.SetDefault("generator.provider", "")
	viper.SetDefault("generator.max_retries", 3)
	viper.SetDefault("pool.min_headlines", 5)
	viper.SetDefault("pool.headline_batch", 10)
	viper.SetDefault("pool.word_target", 500)

	viper.SetEnvPrefix("FAKER_NEWS")
	viper.AutomaticEnv()

	if db, _ := rootCmd.PersistentFlags().GetString("db"); db != "" {
		viper.Set("db", db)
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
