package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SmileyChris/faker-news/internal/pool"
	"github.com/SmileyChris/faker-news/pkg/types"
)

var headlineCmd = &cobra.Command{
	Use:   "headline",
	Short: "Fetch a fake news headline from the cache",
	Long: `Headline prints one or more headlines, replenishing the cache through
the generator when unused headlines run below the configured minimum.
Fetched headlines are marked used unless --keep is given.`,
	RunE: runHeadline,
}

func runHeadline(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	keep, _ := cmd.Flags().GetBool("keep")
	allowUsed, _ := cmd.Flags().GetBool("allow-used")

	m, closeStore, err := openManager()
	if err != nil {
		return err
	}
	defer closeStore()

	for i := 0; i < count; i++ {
		item, err := m.Fetch(context.Background(), types.FieldHeadline, pool.FetchOptions{
			ClaimOptions: types.ClaimOptions{Consume: !keep, AllowUsed: allowUsed},
		})
		if err != nil {
			return err
		}
		fmt.Println(item.Headline)
	}
	return nil
}

func init() {
	headlineCmd.Flags().IntP("count", "n", 1, "number of headlines to fetch")
	headlineCmd.Flags().Bool("keep", false, "do not mark the fetched headline used")
	headlineCmd.Flags().Bool("allow-used", false, "allow returning already-used headlines")

	rootCmd.AddCommand(headlineCmd)
}
