package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SmileyChris/faker-news/internal/secrets"
	"github.com/SmileyChris/faker-news/pkg/types"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Check or store generator API credentials",
	Long: `Setup reports which API credentials are configured and where they were
found (environment variables or the .secrets/ directory).

With --set, setup reads an API key from stdin and stores it in .secrets/:

  echo "sk-..." | faker-news setup --set openai`,
	RunE: runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	if set, _ := cmd.Flags().GetString("set"); set != "" {
		return saveKey(types.GeneratorProvider(set))
	}

	found := false
	for _, provider := range []types.GeneratorProvider{types.ProviderOpenAI, types.ProviderDashScope} {
		value, source := secrets.Resolve(provider, secrets.DefaultDir)
		if value != "" {
			fmt.Printf("%-10s key found (%s)\n", provider, source)
			found = true
		} else {
			fmt.Printf("%-10s no key configured\n", provider)
		}
	}

	if !found {
		fmt.Println()
		fmt.Println("No API key found. Set OPENAI_API_KEY or DASHSCOPE_API_KEY in the")
		fmt.Println("environment, or store a key with:")
		fmt.Println()
		fmt.Println(`  echo "sk-..." | faker-news setup --set openai`)
		return nil
	}

	fmt.Println()
	fmt.Println("Quick test: faker-news headline")
	return nil
}

func saveKey(provider types.GeneratorProvider) error {
	reader := bufio.NewReader(os.Stdin)
	key, err := reader.ReadString('\n')
	if err != nil && key == "" {
		return fmt.Errorf("reading key from stdin: %w", err)
	}

	path, err := secrets.Save(provider, secrets.DefaultDir, strings.TrimSpace(key))
	if err != nil {
		return err
	}
	fmt.Printf("%s key saved to %s\n", provider, path)
	return nil
}

func init() {
	setupCmd.Flags().String("set", "", "store a key read from stdin for this provider: openai or dashscope")

	rootCmd.AddCommand(setupCmd)
}
