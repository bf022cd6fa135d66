package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/refinehq/refine"
	"github.com/refinehq/refine/internal/cli"
	mcpadapter "github.com/refinehq/refine/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the refinement workflow as an MCP server over stdio.
This allows AI agent hosts to call refine_requirements as a tool.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")

		app, err := cli.BuildApp(cmd.Context(), cfgPath)
		if err != nil {
			fmt.Printf("Error initializing refine: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		srv := mcpadapter.NewServer(app.Client.Engine(), refine.Version,
			mcpadapter.WithStore(app.Sessions),
			mcpadapter.WithLogger(app.Logger),
		)

		// Logs must stay off Stdout to keep the JSON-RPC stream clean.
		log.SetOutput(os.Stderr)
		app.Logger.Info("starting refine MCP server (stdio)")
		if err := srv.ServeStdio(); err != nil {
			app.Logger.Error("MCP server execution failed", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
