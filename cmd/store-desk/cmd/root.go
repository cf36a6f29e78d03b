// Package cmd provides the CLI commands for store-desk.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Store-Desk/Storedesk/internal/config"
)

var (
	cfgFile      string
	dataDir      string
	outputFormat string
	devMode      bool
)

var rootCmd = &cobra.Command{
	Use:   "store-desk",
	Short: "store-desk - terminal dashboard for the demo product catalog",
	Long: `store-desk is a terminal dashboard for the dummyjson demo catalog API.

It authenticates against the demo identity endpoint, browses and searches
the paginated product catalog, and shows per-page summary statistics. The
session (profile and bearer token) is persisted under the data directory,
so you stay logged in across runs.

Quick start:
  store-desk login -u emilys -p emilyspass
  store-desk dashboard
  store-desk products list --limit 10
  store-desk products search phone

Configuration:
  Config is loaded from store-desk.yaml in the current directory,
  $HOME/.store-desk/, or /etc/store-desk/.

  Environment variables can override config values with the STORE_DESK_
  prefix. Example: STORE_DESK_API_BASE_URL=https://dummyjson.com

Commands:
  login       Log in against the identity endpoint
  logout      Clear the persisted session
  profile     Show the extended profile of the logged-in user
  dashboard   Show the catalog summary with derived statistics
  products    List, search, and inspect catalog products
  reset       Remove all persisted state
  version     Print version information`,
}

// Execute runs the root command with an interrupt-aware context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./store-desk.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory for the persisted session (default: ~/.store-desk)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "development mode (forces debug logging)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
