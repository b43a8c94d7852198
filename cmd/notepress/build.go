package main

import (
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/hkan/notepress"
	"github.com/hkan/notepress/views"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export the site as static HTML",
	Long: `The build command renders every public page, the feed, the sitemap,
and robots.txt into the output directory, and copies static assets along.
The result can be hosted anywhere that serves files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := notepress.New(siteCfg, views.Funcs())

		start := time.Now()
		pages, err := app.Export()
		if err != nil {
			return err
		}
		log.Printf("exported %d pages to %s in %s", pages, app.Config.OutputDir, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
