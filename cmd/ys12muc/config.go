package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/QEStudios/ys12muc/mucom"
	"github.com/spf13/pflag"
)

// Config holds every setting that can be given on the command line.
// It can also be loaded from a TOML file, with flags overriding the file.
type Config struct {
	Verbose        bool   `toml:"verbose"`
	IgnoreWarnings bool   `toml:"ignore-warnings"`
	Compat         bool   `toml:"compat"`
	Output         string `toml:"output"`
	Track          int    `toml:"track"`
	TempoDivisor   int    `toml:"tempo-divisor"`
	Events         bool   `toml:"events"`

	Tags mucom.Tags `toml:"tags"`
}

func defaultConfig() Config {
	return Config{TempoDivisor: 1}
}

// loadConfig parses a TOML config file on top of the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return cfg, nil
}

// flagValues binds the command line flags, which are copied over a Config with apply.
type flagValues struct {
	fs         *pflag.FlagSet
	configPath string
	cfg        Config
}

func newFlagValues(fs *pflag.FlagSet) *flagValues {
	v := &flagValues{fs: fs}
	fs.StringVar(&v.configPath, "config", "", "TOML config file")
	fs.BoolVarP(&v.cfg.Verbose, "verbose", "v", false, "verbose (debug info)")
	fs.BoolVarP(&v.cfg.IgnoreWarnings, "workaround", "w", false, "apply workaround and ignore warnings")
	fs.BoolVar(&v.cfg.Compat, "compat", false, "use the legacy per-pass operand widths of opcodes $F5 and $F6")
	fs.StringVarP(&v.cfg.Output, "output", "o", "", "output file (default: stdout)")
	fs.IntVarP(&v.cfg.Track, "track", "n", 0, "BGM number")
	fs.IntVarP(&v.cfg.TempoDivisor, "tempo-div", "T", 1, "tempo divisor")
	fs.BoolVar(&v.cfg.Events, "events", false, "log a table of the decoded events")
	fs.StringVarP(&v.cfg.Tags.Version, "mucom88", "m", "", "MUCOM88 version for tag")
	fs.StringVarP(&v.cfg.Tags.Title, "title", "t", "", "title for tag")
	fs.StringVarP(&v.cfg.Tags.Author, "author", "a", "", "author for tag")
	fs.StringVarP(&v.cfg.Tags.Composer, "composer", "c", "", "composer for tag")
	fs.StringVarP(&v.cfg.Tags.Date, "date", "d", "", "date for tag")
	fs.StringVarP(&v.cfg.Tags.Comment, "comment", "C", "", "comment for tag")
	return v
}

// apply copies the flags that were set explicitly onto cfg.
func (v *flagValues) apply(cfg Config) Config {
	set := map[string]func(){
		"verbose":    func() { cfg.Verbose = v.cfg.Verbose },
		"workaround": func() { cfg.IgnoreWarnings = v.cfg.IgnoreWarnings },
		"compat":     func() { cfg.Compat = v.cfg.Compat },
		"output":     func() { cfg.Output = v.cfg.Output },
		"track":      func() { cfg.Track = v.cfg.Track },
		"tempo-div":  func() { cfg.TempoDivisor = v.cfg.TempoDivisor },
		"events":     func() { cfg.Events = v.cfg.Events },
		"mucom88":    func() { cfg.Tags.Version = v.cfg.Tags.Version },
		"title":      func() { cfg.Tags.Title = v.cfg.Tags.Title },
		"author":     func() { cfg.Tags.Author = v.cfg.Tags.Author },
		"composer":   func() { cfg.Tags.Composer = v.cfg.Tags.Composer },
		"date":       func() { cfg.Tags.Date = v.cfg.Tags.Date },
		"comment":    func() { cfg.Tags.Comment = v.cfg.Tags.Comment },
	}
	v.fs.Visit(func(f *pflag.Flag) {
		if fn, ok := set[f.Name]; ok {
			fn()
		}
	})
	return cfg
}

// resolve returns the final configuration: defaults, then the config file, then flags.
func (v *flagValues) resolve() (Config, error) {
	cfg := defaultConfig()
	if v.configPath != "" {
		var err error
		cfg, err = loadConfig(v.configPath)
		if err != nil {
			return cfg, err
		}
	}
	cfg = v.apply(cfg)
	if cfg.TempoDivisor < 1 {
		return cfg, fmt.Errorf("tempo divisor must be at least 1, got %d", cfg.TempoDivisor)
	}
	if cfg.Track < 0 {
		return cfg, fmt.Errorf("BGM number must not be negative, got %d", cfg.Track)
	}
	return cfg, nil
}
