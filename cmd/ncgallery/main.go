// Command ncgallery renders the netCDF chart gallery.
//
// Usage:
//
//	ncgallery list
//	ncgallery render conlev vectors
//	ncgallery all --out figures --format svg
//	ncgallery fetch
//
// Sample files are downloaded on first use and cached; --data-dir points
// at a local copy of the sample data instead.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/geal-ai/ncgallery/gallery"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the flag values and what PersistentPreRunE builds from them.
type app struct {
	out io.Writer

	configPath  string
	dataDir     string
	cacheDir    string
	outDir      string
	format      string
	coastlines  string
	concurrency int
	verbose     bool

	log *zap.Logger
	env *gallery.Env
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:   "ncgallery",
		Short: "Render charts from sample netCDF datasets",
		Long: `ncgallery renders a gallery of example charts: contour maps with a
cyclic longitude point, masked fields, vectors, bar, line and scatter
plots. Each example reads one sample netCDF file, reduces it and writes
one or more image files.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.SetOut(out)

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "YAML config file")
	f.StringVar(&a.dataDir, "data-dir", "", "directory holding local copies of the sample files")
	f.StringVar(&a.cacheDir, "cache-dir", "", "download cache (default: user cache dir)")
	f.StringVarP(&a.outDir, "out", "o", "", "output directory (default: out)")
	f.StringVarP(&a.format, "format", "f", "", "image format: png, svg, pdf, jpg, eps, tif")
	f.StringVar(&a.coastlines, "coastlines", "", "lon/lat shapefile drawn on maps")
	f.IntVarP(&a.concurrency, "concurrency", "j", 0, "examples rendered at once by 'all' (default 6)")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the examples",
			Args:  cobra.NoArgs,
			RunE:  a.list,
		},
		&cobra.Command{
			Use:   "render NAME...",
			Short: "Render the named examples",
			Args:  cobra.MinimumNArgs(1),
			ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
				return gallery.Names(), cobra.ShellCompDirectiveNoFileComp
			},
			RunE: a.render,
		},
		&cobra.Command{
			Use:   "all",
			Short: "Render every example in parallel",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.run(cmd.Context(), gallery.Names())
			},
		},
		&cobra.Command{
			Use:   "fetch",
			Short: "Download every sample dataset into the cache",
			Args:  cobra.NoArgs,
			RunE:  a.fetch,
		},
	)
	return root
}

// setup loads the config, applies flag overrides and builds the logger and
// environment shared by the subcommands.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := gallery.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("data-dir", &cfg.DataDir, a.dataDir)
	override("cache-dir", &cfg.CacheDir, a.cacheDir)
	override("out", &cfg.OutDir, a.outDir)
	override("format", &cfg.Format, a.format)
	override("coastlines", &cfg.Coastlines, a.coastlines)
	if flags.Changed("concurrency") {
		cfg.Concurrency = a.concurrency
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	zc := zap.NewProductionConfig()
	if a.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if a.log, err = zc.Build(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.env = gallery.NewEnv(cfg, a.log)
	return nil
}

func (a *app) list(cmd *cobra.Command, args []string) error {
	exs := gallery.Examples()
	maxName := 0
	for _, ex := range exs {
		maxName = max(maxName, len(ex.Name))
	}
	fmt.Fprintln(a.out, "Examples:")
	fmt.Fprintln(a.out)
	for _, ex := range exs {
		fmt.Fprintf(a.out, "  %-*s  %s\n", maxName, ex.Name, ex.Desc)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Sample data is fetched from %s\n", a.env.Config.BaseURL)
	return nil
}

func (a *app) render(cmd *cobra.Command, args []string) error {
	for _, name := range args {
		if _, err := gallery.Lookup(name); err != nil {
			return err
		}
	}
	return a.run(cmd.Context(), args)
}

// run renders names and prints one line per example.
func (a *app) run(ctx context.Context, names []string) error {
	results, err := gallery.RunAll(ctx, a.env, names)
	if err != nil {
		return err
	}
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(a.out, "  %-10s  error: %v\n", r.Name, r.Err)
			continue
		}
		for _, f := range r.Files {
			fmt.Fprintf(a.out, "  %-10s  %s  (%s)\n", r.Name, f, r.Elapsed.Round(time.Millisecond))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d examples failed", failed, len(results))
	}
	return nil
}

func (a *app) fetch(cmd *cobra.Command, args []string) error {
	for _, name := range gallery.Datasets() {
		path, err := a.env.Data.Get(cmd.Context(), name)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "  %s  %s\n", name, path)
	}
	return nil
}
