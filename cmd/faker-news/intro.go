package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SmileyChris/faker-news/internal/pool"
	"github.com/SmileyChris/faker-news/pkg/types"
)

var introCmd = &cobra.Command{
	Use:   "intro",
	Short: "Fetch a fake news intro paragraph from the cache",
	Long: `Intro prints an intro paragraph. Without --headline it picks an
unused headline (without consuming it) and serves that story's intro,
generating one on demand when the cache holds none.`,
	RunE: runIntro,
}

func runIntro(cmd *cobra.Command, args []string) error {
	headline, _ := cmd.Flags().GetString("headline")
	keep, _ := cmd.Flags().GetBool("keep")
	allowUsed, _ := cmd.Flags().GetBool("allow-used")
	withHeadline, _ := cmd.Flags().GetBool("with-headline")

	m, closeStore, err := openManager()
	if err != nil {
		return err
	}
	defer closeStore()

	item, err := m.Fetch(context.Background(), types.FieldIntro, pool.FetchOptions{
		ClaimOptions: types.ClaimOptions{
			Headline:  headline,
			Consume:   !keep,
			AllowUsed: allowUsed,
		},
	})
	if err != nil {
		return err
	}

	if withHeadline {
		fmt.Println(item.Headline)
		fmt.Println()
	}
	fmt.Println(item.Intro)
	return nil
}

func init() {
	introCmd.Flags().String("headline", "", "fetch the intro for this exact headline")
	introCmd.Flags().Bool("keep", false, "do not mark the fetched intro used")
	introCmd.Flags().Bool("allow-used", false, "allow returning an already-used intro")
	introCmd.Flags().Bool("with-headline", false, "print the story headline above the intro")

	rootCmd.AddCommand(introCmd)
}
