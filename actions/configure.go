package actions

import (
	"fmt"
	"io"
	"strings"

	"github.com/relloyd/starpipe/config"
)

type ConfigFileConfig struct {
	File  *config.File
	Out   io.Writer
	Force bool
	Key   string
	Value string
}

// RunConfigInit writes a skeleton settings file.
func RunConfigInit(cfg *ConfigFileConfig) error {
	if cfg.File.Exists() && !cfg.Force {
		return fmt.Errorf("config file %v already exists, use --force to overwrite it", cfg.File.FullPath)
	}
	if err := cfg.File.WriteYAML(config.Skeleton()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cfg.Out, "Config file written to %v, edit it to supply your settings.\n", cfg.File.FullPath)
	return err
}

// RunConfigShow prints the effective settings with the DSN password hidden.
func RunConfigShow(out io.Writer, settings *config.Pipeline) error {
	_, err := fmt.Fprintln(out, settings.Redacted())
	return err
}

// RunConfigSet saves one setting in the file, or removes it if the value is empty.
func RunConfigSet(cfg *ConfigFileConfig) error {
	if !config.IsKey(cfg.Key) {
		return fmt.Errorf("unknown setting %q, expected one of %v", cfg.Key, strings.Join(config.Keys(), ", "))
	}
	if cfg.Value == "" {
		return cfg.File.Delete(cfg.Key)
	}
	return cfg.File.Set(cfg.Key, cfg.Value)
}
