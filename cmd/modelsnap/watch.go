package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/philipparndt/modelsnap/pkg/openscad"
	"github.com/philipparndt/modelsnap/pkg/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-render the snapshot whenever the model or its dependencies change",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", 0, "delay after the last change before re-rendering (default from config)")
	if err := v.BindPFlag("watch.debounce", watchCmd.Flags().Lookup("debounce")); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(watchCmd)
}

// watchFiles returns the files whose changes affect the model
func watchFiles(ctx context.Context, file string) ([]string, error) {
	if strings.ToLower(filepath.Ext(file)) != ".scad" {
		return []string{file}, nil
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	renderer := openscad.NewRenderer(filepath.Dir(abs),
		openscad.WithBinary(cfg.OpenSCAD.Binary),
		openscad.WithLogger(log),
	)
	return renderer.ResolveDependencies(ctx, abs)
}

func runWatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, log)
	if err != nil {
		return err
	}
	defer fw.Close()

	files, err := watchFiles(ctx, file)
	if err != nil {
		return err
	}
	if err := fw.Watch(files...); err != nil {
		return err
	}
	log.Info().Int("files", len(files)).Str("model", file).Msg("watching for changes")

	p := newPipeline()
	if err := snapshot(ctx, p, file); err != nil {
		log.Error().Err(err).Msg("snapshot failed")
	}

	changes := make(chan string, 1)
	go func() {
		if err := fw.Run(ctx, func(path string) {
			select {
			case changes <- path:
			default:
			}
		}); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("watcher stopped")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changes:
			log.Info().Str("file", path).Msg("change detected, re-rendering")

			// OpenSCAD dependencies may have changed with the edit
			if deps, err := watchFiles(ctx, file); err == nil {
				if err := fw.Watch(deps...); err != nil {
					log.Warn().Err(err).Msg("failed to watch dependencies")
				}
			}
			if err := snapshot(ctx, p, file); err != nil {
				log.Error().Err(err).Msg("snapshot failed")
			}
		}
	}
}
