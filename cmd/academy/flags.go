package main

import (
	"fmt"
	"os"
	"strconv"

	flag "github.com/spf13/pflag"
)

// Environment variable overrides, applied between config and flags.
const (
	envContentDir = "ACADEMY_CONTENT_DIR"
	envOutDir     = "ACADEMY_OUT_DIR"
	envWPM        = "ACADEMY_WPM"
)

// buildFlags holds the parsed command line.
type buildFlags struct {
	configName string
	contentDir string
	outDir     string
	style      string
	wpm        int
	workers    int
	verbose    bool
	version    bool
}

// parseFlags parses args (including the program name) into buildFlags.
// Environment variables fill any value the command line leaves unset.
func parseFlags(args []string) (*buildFlags, error) {
	fs := flag.NewFlagSet("academy", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: academy [flags]")
		fmt.Fprintln(os.Stderr, fs.FlagUsages())
	}

	f := &buildFlags{}
	fs.StringVarP(&f.configName, "config", "c", "", "config file path or name")
	fs.StringVar(&f.contentDir, "content", "", "content directory (overrides config)")
	fs.StringVarP(&f.outDir, "out", "o", "", "output directory (default \"dist\")")
	fs.StringVar(&f.style, "style", "", "stylesheet name or CSS file path (default \"academy\")")
	fs.IntVar(&f.wpm, "wpm", 0, "words per minute for reading time (overrides config)")
	fs.IntVar(&f.workers, "workers", 0, "parallel document parses (overrides config)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "verbose logging")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}

	applyEnv(f)
	if f.outDir == "" {
		f.outDir = "dist"
	}
	return f, nil
}

// applyEnv fills unset values from the environment.
func applyEnv(f *buildFlags) {
	if f.contentDir == "" {
		f.contentDir = os.Getenv(envContentDir)
	}
	if f.outDir == "" {
		f.outDir = os.Getenv(envOutDir)
	}
	if f.wpm == 0 {
		if v, err := strconv.Atoi(os.Getenv(envWPM)); err == nil && v > 0 {
			f.wpm = v
		}
	}
}
