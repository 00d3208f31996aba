package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var preloadCmd = &cobra.Command{
	Use:   "preload [count]",
	Short: "Generate and cache headlines without intro or article content",
	Long: `Preload asks the generator for a batch of fresh headlines and inserts
them unused into the cache. Headlines that already exist are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreload,
}

func runPreload(cmd *cobra.Command, args []string) error {
	count, err := strconv.Atoi(args[0])
	if err != nil || count <= 0 {
		return fmt.Errorf("count must be a positive integer, got %q", args[0])
	}

	m, closeStore, err := openManager()
	if err != nil {
		return err
	}
	defer closeStore()

	inserted, err := m.Preload(context.Background(), count)
	if err != nil {
		return err
	}

	fmt.Printf("Preloaded %d new headline(s).\n", inserted)
	if inserted < count {
		fmt.Printf("%d duplicate or missing from the generator batch.\n", count-inserted)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(preloadCmd)
}
