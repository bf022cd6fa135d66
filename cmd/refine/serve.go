package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/refinehq/refine/internal/cli"
	httpadapter "github.com/refinehq/refine/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Starts the refinement workflow as an HTTP server with JSON and SSE endpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")
		addr, _ := cmd.Flags().GetString("addr")

		app, err := cli.BuildApp(cmd.Context(), cfgPath)
		if err != nil {
			fmt.Printf("Error initializing refine: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		if !cmd.Flags().Changed("addr") {
			addr = app.Config.Server.Addr
		}

		server := httpadapter.NewServer(app.Client.Engine(),
			httpadapter.WithStore(app.Sessions),
			httpadapter.WithLogger(app.Logger),
			httpadapter.WithMetrics(app.Registry),
			httpadapter.WithAllowedOrigins(app.Config.Server.AllowedOrigins),
		)

		srv := &http.Server{
			Addr:    addr,
			Handler: server.Handler(),
		}

		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting refine server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			timeout := app.Config.Server.ShutdownTimeout
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", timeout, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Refine server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8000", "Address to listen on")
}
