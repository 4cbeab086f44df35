package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/philipparndt/modelsnap/pkg/capture"
	"github.com/spf13/cobra"
)

var (
	snapshotDataURL  bool
	snapshotMetadata bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <file-or-url>",
	Short: "Render a model and save the frame as PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringP("out", "o", capture.DefaultFileName, "output file")
	snapshotCmd.Flags().BoolVar(&snapshotDataURL, "data-url", false, "print the image as a data URL instead of writing a file")
	snapshotCmd.Flags().BoolVar(&snapshotMetadata, "metadata", false, "also write the normalization as JSON next to the image")
	if err := v.BindPFlag("output", snapshotCmd.Flags().Lookup("out")); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return snapshot(ctx, newPipeline(), args[0])
}

// snapshot captures ref and delivers it to the configured output
func snapshot(ctx context.Context, p *capture.Pipeline, ref string) error {
	snap, err := p.Capture(ctx, ref)
	if err != nil {
		return err
	}

	if snapshotDataURL {
		fmt.Println(snap.DataURL())
		return nil
	}

	if err := os.WriteFile(cfg.Output, snap.PNG, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if snapshotMetadata {
		if err := saveMetadata(cfg.Output, snap); err != nil {
			return err
		}
	}
	log.Info().
		Str("file", cfg.Output).
		Int("width", snap.Width).
		Int("height", snap.Height).
		Float64("scale", snap.Normalization.ScaleFactor).
		Msg("saved snapshot")
	return nil
}
