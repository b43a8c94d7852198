package main

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/hkan/notepress"
	"github.com/hkan/notepress/views"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site with the admin dashboard",
	Long: `The serve command starts the notepress server: public pages, the
admin dashboard, feed, sitemap, and (when enabled) analytics. The content
directory is watched so edited markdown files show up without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := notepress.New(siteCfg, views.Funcs())
		defer app.Close()

		stopWatch, err := watchContent(app)
		if err != nil {
			log.Printf("content watcher disabled: %v", err)
		} else {
			defer stopWatch()
		}

		return app.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// watchContent invalidates the note cache when files under the content
// directory change, debounced so editor save bursts trigger one reload.
func watchContent(app *notepress.App) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	go func() {
		var timer *time.Timer
		const debounce = 500 * time.Millisecond

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}

				// New subdirectories are not watched automatically.
				if event.Has(fsnotify.Create) {
					if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
						if addErr := watcher.Add(event.Name); addErr != nil {
							log.Printf("watch %s: %v", event.Name, addErr)
						}
					}
				}

				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, func() {
					log.Printf("content changed, reloading notes")
					if app.Cache != nil {
						app.Cache.Invalidate()
					}
				})
			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("watcher error: %v", watchErr)
			}
		}
	}()

	walkErr := filepath.WalkDir(app.Config.ContentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if walkErr != nil {
		watcher.Close()
		return nil, walkErr
	}

	return watcher.Close, nil
}
