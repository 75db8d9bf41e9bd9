// panelboard - demo dashboard server
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	cfgFile  string
	portFlag string
	logLevel = new(slog.LevelVar)
)

var rootCmd = &cobra.Command{
	Use:   "panelboard",
	Short: "Browser dashboard with five demo panels",
	Long: `panelboard serves a dashboard whose sidebar selects one of five demo
panels: an interactive dashboard, a CSV data explorer, a live counter,
a chat simulator and a file uploader.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of panelboard",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "panelboard %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&portFlag, "port", "", "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd, versionCmd)
}

func defaultConfigPath() string {
	if p := os.Getenv("PANELBOARD_CONFIG"); p != "" {
		return p
	}
	return "panelboard.yml"
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
