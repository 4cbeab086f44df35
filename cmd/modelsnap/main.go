package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/modelsnap/internal/config"
	"github.com/philipparndt/modelsnap/internal/logging"
	"github.com/philipparndt/modelsnap/pkg/capture"
	"github.com/philipparndt/modelsnap/pkg/loader"
	"github.com/philipparndt/modelsnap/version"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = viper.New()
	cfg     *config.Config
	log     = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "modelsnap",
	Short: "Render a normalized snapshot of a 3D model",
	Long: `modelsnap loads a 3D model (glTF/GLB, STL, OBJ or OpenSCAD) from a file or URL,
scales it into a fixed 200 unit envelope, places it on the floor of a preset
scene and renders one frame to PNG.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		log, err = logging.New(os.Stderr, cfg.LogLevel)
		return err
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.modelsnap/config.yaml)")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.Int("width", 1280, "output width in pixels")
	flags.Int("height", 720, "output height in pixels")
	flags.Int("supersample", 2, "supersampling factor used for anti-aliasing")
	flags.Duration("timeout", capture.DefaultLoadTimeout, "maximum time to wait for the model to load (0 waits forever)")
	flags.Float64("simplify", 0, "reduce meshes to this fraction of their triangles (0 keeps all)")
	flags.String("openscad", "openscad", "OpenSCAD executable used for .scad models")

	bind := map[string]string{
		"log_level":            "log-level",
		"viewport.width":       "width",
		"viewport.height":      "height",
		"viewport.supersample": "supersample",
		"load_timeout":         "timeout",
		"simplify":             "simplify",
		"openscad.binary":      "openscad",
	}
	for key, flag := range bind {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func newLoader() *loader.Registry {
	return loader.New(
		loader.WithOpenSCAD(cfg.OpenSCAD.Binary),
		loader.WithSimplify(cfg.Simplify),
		loader.WithLogger(log),
	)
}

func newPipeline() *capture.Pipeline {
	vp := capture.Viewport{
		Width:       cfg.Viewport.Width,
		Height:      cfg.Viewport.Height,
		Supersample: cfg.Viewport.Supersample,
	}
	return capture.New(newLoader(),
		capture.WithLogger(log),
		capture.WithTimeout(cfg.LoadTimeout),
		capture.WithSessionFactory(capture.NewRasterSession(vp, log)),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
