package compix

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the settings compix reads from an optional TOML config file,
// overridable by CLI flags. Fields mirror the flags in cmd/compix.
type Config struct {
	GrammarFile string `toml:"grammar_file"`
	OutFile     string `toml:"out_file"`
	EmitTokens  bool   `toml:"emit_tokens"`
	EmitTree    bool   `toml:"emit_tree"`
	EmitSymbols bool   `toml:"emit_symbols"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		GrammarFile: "grammar.txt",
		OutFile:     "out.asm",
	}
}

// LoadConfig reads and decodes a TOML config file at path. A missing file
// is not an error: the defaults are returned unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}
