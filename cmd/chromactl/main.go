package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vectorops/chromactl/internal/app"
	"github.com/vectorops/chromactl/internal/config"
	"github.com/vectorops/chromactl/internal/logger"
)

var baseURL string

var rootCmd = &cobra.Command{
	Use:           "chromactl",
	Short:         "Client for a Chroma-compatible vector database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var heartbeatCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Probe server liveness",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			if !a.Heartbeat(ctx) {
				return fmt.Errorf("server is not reachable")
			}
			fmt.Println("HEARTBEAT: Success")
			return nil
		})
	},
}

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			if !a.CreateCollection(ctx, args[0]) {
				return fmt.Errorf("failed to create collection %q", args[0])
			}
			fmt.Println("Collection created successfully.")
			return nil
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Fetch a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			col, ok := a.GetCollection(ctx, args[0])
			if !ok {
				return fmt.Errorf("collection %q not found or an error occurred", args[0])
			}
			fmt.Printf("Collection ID: %s\n", col.ID)
			fmt.Printf("Collection Name: %s\n", col.Name)
			return nil
		})
	},
}

// withApp loads config, initializes logging, builds the runtime, and runs fn.
func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "override the configured server base URL")
	rootCmd.AddCommand(heartbeatCmd, createCmd, getCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "chromactl: %v\n", err)
		os.Exit(1)
	}
}
