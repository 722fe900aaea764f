package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/QEStudios/ys12muc/mucom"
	"github.com/QEStudios/ys12muc/parser/ys1"
	"github.com/spf13/pflag"
	"github.com/sqweek/dialog"
)

var logger *log.Logger

func main() {
	// Stdout may be carrying the MML, so log to stderr.
	logger = log.New(os.Stderr, "", log.Ldate|log.Ltime)

	fs, flags := newFlagSet(os.Stderr)
	if err := parseArgs(fs, os.Args[1:]); err != nil {
		os.Exit(1)
	}

	cfg, err := flags.resolve()
	if err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	// Get the current working directory.
	cwd, err := os.Getwd()
	if err != nil {
		logger.Fatalf("failed to get current working directory: %v", err)
	}

	// Get the path of the driver data file.
	path, err := choosePath(cwd, fs.Args())
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			logger.Printf("User cancelled the file dialog")
			os.Exit(1)
		}
		logger.Fatalf("failed to determine file path: %v", err)
	}

	if err := run(path, cfg); err != nil {
		logger.Fatalf("%v", err)
	}
}

// newFlagSet returns the command line flags, with usage printed to output.
func newFlagSet(output io.Writer) (*pflag.FlagSet, *flagValues) {
	fs := pflag.NewFlagSet("ys12muc", pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: ys12muc [option(s)] file\n")
		fs.PrintDefaults()
	}
	return fs, newFlagValues(fs)
}

// parseArgs parses args into fs. Any usage error, -h included, prints the usage and is returned.
func parseArgs(fs *pflag.FlagSet, args []string) error {
	err := fs.Parse(args)
	switch {
	case errors.Is(err, pflag.ErrHelp):
		// Already printed by the flag set.
		return err
	case err != nil:
		fmt.Fprintln(fs.Output(), err)
		fs.Usage()
		return err
	case fs.NArg() > 1:
		fs.Usage()
		return fmt.Errorf("expected at most one file, got %d", fs.NArg())
	}
	return nil
}

// run decodes the track selected by cfg from the file at path and writes the MML.
func run(path string, cfg Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	logger.Printf("Decoding BGM %d of %s", cfg.Track, filepath.Base(path))

	p := ys1.NewParser(file, logger, ys1.Options{
		IgnoreWarnings: cfg.IgnoreWarnings,
		Compat:         cfg.Compat,
		Verbose:        cfg.Verbose,
	})
	song, err := p.Parse(cfg.Track)
	if err != nil {
		return decodeError(err)
	}
	if cfg.Verbose {
		logger.Printf("\n%v", song)
	}

	if cfg.Events {
		if err := logEvents(song); err != nil {
			return err
		}
	}

	if cfg.Output == "" {
		return writeSong(os.Stdout, song, cfg)
	}
	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("error opening output file: %w", err)
	}
	if err := writeSong(f, song, cfg); err != nil {
		// Don't leave a truncated file behind.
		f.Close()
		os.Remove(cfg.Output)
		return err
	}
	return f.Close()
}

func writeSong(w io.Writer, song *ys1.Song, cfg Config) error {
	err := mucom.Write(w, song, mucom.Options{
		TempoDivisor: cfg.TempoDivisor,
		Tags:         cfg.Tags,
		Logger:       logger,
		Verbose:      cfg.Verbose,
	})
	if err != nil {
		var warning *ys1.DecodeWarning
		if errors.As(err, &warning) {
			return decodeError(err)
		}
		return fmt.Errorf("error writing output: %w", err)
	}
	return nil
}

// decodeError adds the workaround hint to warnings.
func decodeError(err error) error {
	var warning *ys1.DecodeWarning
	if errors.As(err, &warning) {
		return fmt.Errorf("exit with warning (%v). try -w option to apply workaround", err)
	}
	return fmt.Errorf("decode error: %w", err)
}

// logEvents logs the emission pass of every channel side by side.
func logEvents(song *ys1.Song) error {
	events := make([][]ys1.Event, 0, ys1.NumChannels)
	headers := make([]string, 0, ys1.NumChannels)
	for _, ch := range song.Track.Channels {
		evs, err := ch.Events(ys1.EmitPass)
		if err != nil {
			return fmt.Errorf("decode error: %w", err)
		}
		events = append(events, evs)
		headers = append(headers, fmt.Sprintf("%s (%s)", ch.Name, ch.Sound))
	}
	logger.Printf("Decoded events:\n%s", mucom.FormatEventTable(events, headers, 2))
	return nil
}

// choosePath returns the file path either from the command-line args
// or from an interactive file dialog.
func choosePath(cwd string, args []string) (string, error) {
	// If an argument was passed to the program, use it.
	if len(args) > 0 {
		absPath, err := filepath.Abs(args[0])
		if err != nil {
			return "", fmt.Errorf("cannot get absolute path: %w", err)
		}
		if err := validatePath(absPath); err != nil {
			return "", fmt.Errorf("passed argument is not a valid path: %w", err)
		}
		return absPath, nil
	}

	// Otherwise open the file dialog.
	path, err := dialog.
		File().
		Title("Open sound driver data").
		Filter("All files", "*").
		SetStartDir(cwd).
		Load()
	if err != nil {
		// Propagate the error. Caller will check for dialog.ErrCancelled.
		return "", err
	}

	// Check for empty path just in case.
	if path == "" {
		return "", dialog.ErrCancelled
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot get absolute path: %w", err)
	}
	if err := validatePath(absPath); err != nil {
		return "", fmt.Errorf("dialog selection invalid: %w", err)
	}
	return absPath, nil
}

// validatePath checks that p is an existing regular file.
func validatePath(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("cannot stat file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", p)
	}
	return nil
}
