package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var populateCmd = &cobra.Command{
	Use:   "populate [count]",
	Short: "Top the cache up to a target count of ready-to-serve items",
	Long: `Populate ensures the cache holds the target number of unused items
with the requested content, generating as little as possible: cached items
missing a field are completed first, complete idle items count as-is, and
only the remaining deficit becomes fresh headlines. Missing intros and
articles are generated in one batched call per field.`,
	Args: cobra.ExactArgs(1),
	RunE: runPopulate,
}

func runPopulate(cmd *cobra.Command, args []string) error {
	count, err := strconv.Atoi(args[0])
	if err != nil || count <= 0 {
		return fmt.Errorf("count must be a positive integer, got %q", args[0])
	}
	intros, _ := cmd.Flags().GetBool("intros")
	articles, _ := cmd.Flags().GetBool("articles")
	words, _ := cmd.Flags().GetInt("words")

	m, closeStore, err := openManager()
	if err != nil {
		return err
	}
	defer closeStore()

	summary, err := m.Populate(context.Background(), count, intros, articles, words)
	if err != nil {
		return err
	}

	fmt.Printf("reused: %d, ready: %d, created: %d\n",
		summary.Reused, summary.Ready, summary.Created)
	if intros || articles {
		fmt.Printf("intros filled: %d, articles filled: %d\n",
			summary.IntrosFilled, summary.ArticlesFilled)
	}
	if summary.Shortfall > 0 {
		return fmt.Errorf("stocked %d of %d item(s)", summary.Stocked(), count)
	}
	return nil
}

func init() {
	populateCmd.Flags().Bool("intros", false, "ensure every item has an intro")
	populateCmd.Flags().Bool("articles", false, "ensure every item has an article")
	populateCmd.Flags().Int("words", 0, "article word target (0 = configured default)")

	rootCmd.AddCommand(populateCmd)
}
