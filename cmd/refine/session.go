package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/refinehq/refine/internal/cli"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent conversation threads",
	Long:  `List, inspect, and remove conversation threads from the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all known threads",
	Run: func(cmd *cobra.Command, args []string) {
		app := mustBuildApp(cmd)
		defer app.Close()

		threads, err := app.Sessions.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing threads: %v\n", err)
			os.Exit(1)
		}

		if len(threads) == 0 {
			fmt.Println("No threads found.")
			return
		}

		fmt.Println("Threads:")
		for _, t := range threads {
			fmt.Println("- " + t)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <thread-id>",
	Short: "Inspect the stored snapshots of a thread",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustBuildApp(cmd)
		defer app.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		history, err := app.Sessions.History(cmd.Context(), args[0], limit)
		if err != nil {
			fmt.Printf("Error loading thread '%s': %v\n", args[0], err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(history, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling history: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <thread-id>...",
	Short: "Remove one or more threads",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustBuildApp(cmd)
		defer app.Close()

		hasError := false
		for _, threadID := range args {
			if err := app.Sessions.Clear(cmd.Context(), threadID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", threadID, err)
				hasError = true
			} else {
				fmt.Printf("Removed thread '%s'\n", threadID)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func mustBuildApp(cmd *cobra.Command) *cli.App {
	cfgPath, _ := cmd.Flags().GetString("config")
	app, err := cli.BuildApp(cmd.Context(), cfgPath)
	if err != nil {
		fmt.Printf("Error initializing refine: %v\n", err)
		os.Exit(1)
	}
	return app
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionInspectCmd.Flags().Int("limit", 10, "Maximum snapshots to show")
}
