// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gookit/ini/v2"
)

const configFileName = name + ".ini"

// configKeys maps config file keys to the flags they set.
var configKeys = []struct {
	key  string
	flag string
}{
	{"resolver.env_paths", "env-paths"},
	{"resolver.arch_check", "arch-check"},
	{"resolver.platform", "platform"},
	{"resolver.ld_so_conf", "ld-so-conf"},
	{"resolver.musl_path_dir", "musl-path-dir"},
	{"resolver.max_depth", "max-depth"},
	{"output.color", "color"},
	{"output.format", "format"},
}

func defaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, configFileName)
}

// applyConfigFile sets all flags from the config file that have not been set
// on the command line. Values are parsed like flag values.
func (f *flags) applyConfigFile() error {
	if f.configFile == "" {
		return nil
	}

	conf := ini.New()

	err := conf.LoadExists(f.configFile)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	for _, entry := range configKeys {
		if f.flagSet.Changed(entry.flag) || !conf.HasKey(entry.key) {
			continue
		}

		value := conf.String(entry.key)

		err := f.flagSet.Lookup(entry.flag).Value.Set(value)
		if err != nil {
			return fmt.Errorf("%s: %w", entry.key, err)
		}

		slog.Debug("Config file value",
			slog.String("key", entry.key),
			slog.String("value", value),
		)
	}

	return nil
}
