package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solrkit/solrkit/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "solrkit",
	Short: "solrkit - fluent Solr query service and CLI",
	Long: `Solrkit builds Solr query expressions from composable criteria and
executes them lazily with per-snapshot result caching.

Examples:
  # Run the HTTP API server (config from ./config/<ENV>.yaml)
  solrkit serve

  # One-shot query from the command line
  solrkit search --solr http://localhost:8983/solr --collection products \
      --where tags=nerd --where name=Joe --rows 10`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.Commit, version.Date),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
