package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset usage flags or clear the cache",
}

var resetUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Mark all cached content unused again",
	Long: `Usage clears the used flag on every headline, intro, and article,
returning all cached content to the pool. Content itself is untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ResetUsage(context.Background()); err != nil {
			return err
		}
		fmt.Println("All usage flags cleared.")
		return nil
	},
}

var resetAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Delete every cached item",
	Long:  `All deletes every cached item. This cannot be undone; --force is required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("reset all deletes the entire cache; pass --force to confirm")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ClearAll(context.Background()); err != nil {
			return err
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

func init() {
	resetAllCmd.Flags().Bool("force", false, "confirm deleting the entire cache")

	resetCmd.AddCommand(resetUsageCmd)
	resetCmd.AddCommand(resetAllCmd)
	rootCmd.AddCommand(resetCmd)
}
