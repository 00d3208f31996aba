package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SmileyChris/faker-news/internal/pool"
	"github.com/SmileyChris/faker-news/pkg/types"
)

var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "Fetch a fake news article from the cache",
	Long: `Article prints a full article body. Without --headline it picks an
unused headline (without consuming it) and serves that story's article,
generating one on demand when the cache holds none.`,
	RunE: runArticle,
}

func runArticle(cmd *cobra.Command, args []string) error {
	headline, _ := cmd.Flags().GetString("headline")
	words, _ := cmd.Flags().GetInt("words")
	keep, _ := cmd.Flags().GetBool("keep")
	allowUsed, _ := cmd.Flags().GetBool("allow-used")
	withHeadline, _ := cmd.Flags().GetBool("with-headline")

	m, closeStore, err := openManager()
	if err != nil {
		return err
	}
	defer closeStore()

	item, err := m.Fetch(context.Background(), types.FieldArticle, pool.FetchOptions{
		ClaimOptions: types.ClaimOptions{
			Headline:  headline,
			Consume:   !keep,
			AllowUsed: allowUsed,
		},
		WordTarget: words,
	})
	if err != nil {
		return err
	}

	if withHeadline {
		fmt.Println(item.Headline)
		fmt.Println()
	}
	fmt.Println(item.Article)
	return nil
}

func init() {
	articleCmd.Flags().String("headline", "", "fetch the article for this exact headline")
	articleCmd.Flags().Int("words", 0, "word target when the article has to be generated (0 = configured default)")
	articleCmd.Flags().Bool("keep", false, "do not mark the fetched article used")
	articleCmd.Flags().Bool("allow-used", false, "allow returning an already-used article")
	articleCmd.Flags().Bool("with-headline", false, "print the story headline above the article")

	rootCmd.AddCommand(articleCmd)
}
