package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// fixgen.toml: top-level defaults plus one [[dictionary]] entry per
// compilation job. Entry fields override the defaults.
type fileConfig struct {
	Package      string      `toml:"package"`
	Out          string      `toml:"out"`
	Dictionaries []dictEntry `toml:"dictionary"`
}

type dictEntry struct {
	Path    string `toml:"path"`
	Out     string `toml:"out"`
	Package string `toml:"package"`
}

// job is one dictionary-to-output compilation unit. Jobs are
// independent of each other and may run in parallel.
type job struct {
	Path    string
	Out     string
	Package string
}

// loadJobs merges config-file entries with command-line dictionary
// paths. Flags act as defaults for config entries that leave out/package
// unset, and apply directly to paths given as arguments.
func loadJobs(configPath string, args []string, out, pkg string) ([]job, error) {
	var jobs []job

	if configPath != "" {
		var cfg fileConfig
		meta, err := toml.DecodeFile(configPath, &cfg)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
		}
		base := filepath.Dir(configPath)
		for _, e := range cfg.Dictionaries {
			if strings.TrimSpace(e.Path) == "" {
				return nil, fmt.Errorf("load config: dictionary entry without path")
			}
			j := job{
				Path:    joinIfRelative(base, e.Path),
				Package: firstNonEmpty(e.Package, cfg.Package, pkg),
			}
			// Out paths from the config file resolve against the
			// config's directory; the flag resolves against the cwd.
			if configOut := firstNonEmpty(e.Out, cfg.Out); configOut != "" {
				j.Out = joinIfRelative(base, configOut)
			} else {
				j.Out = out
			}
			jobs = append(jobs, j)
		}
	}

	for _, path := range args {
		jobs = append(jobs, job{Path: path, Out: out, Package: pkg})
	}

	for _, j := range jobs {
		if j.Out == "" {
			return nil, fmt.Errorf("%s: no output directory (set --out or out in config)", j.Path)
		}
		if j.Package == "" {
			return nil, fmt.Errorf("%s: no package name (set --package or package in config)", j.Path)
		}
	}
	return jobs, nil
}

func joinIfRelative(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
