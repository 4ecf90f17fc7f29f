package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/biosecret/go-todo/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "todoapp",
	Short: "Role-based todo list server and client",
	Long: `A todo list API where users manage their own todos and admins manage
everybody's, plus a command line client for it.

Server commands read their settings from the environment, an optional .env
file and the YAML file named by CONFIG_FILE.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file loaded before reading the environment")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(promoteCmd)
	rootCmd.AddCommand(clientCmd)
}

// loadConfig reads the server configuration.
func loadConfig() (*config.Config, error) {
	if err := config.LoadENV(envFile); err != nil {
		return nil, err
	}
	return config.Load()
}
