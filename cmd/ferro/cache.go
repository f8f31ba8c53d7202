package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ferro/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the scenario result cache",
}

var cacheDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Remove every cached scenario result",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := driver.OpenDiskCache("ferro")
		if err != nil {
			return fmt.Errorf("cache: %w", err)
		}
		if err := cache.DropAll(); err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "cache is already empty")
				return nil
			}
			return fmt.Errorf("cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cache dropped")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheDropCmd)
}
