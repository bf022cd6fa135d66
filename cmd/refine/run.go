package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refinehq/refine/internal/cli"
	"github.com/refinehq/refine/internal/presentation/tui"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <query>",
	Short: "Run one refinement from the command line",
	Long:  `Runs the full workflow for a single product idea and prints the refined requirements.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")
		threadID, _ := cmd.Flags().GetString("thread")
		queryType, _ := cmd.Flags().GetString("type")
		debate, _ := cmd.Flags().GetString("debate")
		stream, _ := cmd.Flags().GetBool("stream")
		jsonMode, _ := cmd.Flags().GetBool("json")

		app, err := cli.BuildApp(cmd.Context(), cfgPath)
		if err != nil {
			fmt.Printf("Error initializing refine: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		if !jsonMode {
			tui.PrintBanner()
		}

		opts := cli.RunOptions{
			Query:         strings.Join(args, " "),
			ThreadID:      threadID,
			QueryType:     queryType,
			DebateContent: debate,
			Stream:        stream,
			JSON:          jsonMode,
		}
		if err := cli.RunQuery(cmd.Context(), app, opts, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("thread", "", "Conversation thread ID for cross-run context")
	runCmd.Flags().String("type", "", "Query type hint: domain, ux_ui, technical, revenue or general")
	runCmd.Flags().String("debate", "", "Debate content to resolve")
	runCmd.Flags().BoolP("stream", "s", false, "Print agent output as it is produced")
	runCmd.Flags().Bool("json", false, "Print the full response as JSON")
}
