package eval

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/midbel/gnumeric/internal/ds"
)

var ErrOption = errors.New("invalid option")

const DefaultMaxDepth = 256

type LogConfig struct {
	Level  string
	Format string
}

type Config struct {
	MaxDepth int
	Aliases  map[string]string
	Log      LogConfig
}

func DefaultConfig() Config {
	return Config{
		MaxDepth: DefaultMaxDepth,
		Aliases:  make(map[string]string),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

type ConfigFunc func(*Config, any) error

var directiveTrie *ds.Trie[ConfigFunc]

func init() {
	directiveTrie = ds.NewTrie[ConfigFunc]()
	directiveTrie.Register([]string{
		"engine",
		"depth",
	}, configureDepth)
	directiveTrie.Register([]string{
		"engine",
		"aliases",
	}, configureAliases)
	directiveTrie.Register([]string{
		"log",
		"level",
	}, configureLogLevel)
	directiveTrie.Register([]string{
		"log",
		"format",
	}, configureLogFormat)
}

func LoadConfig(file string) (Config, error) {
	r, err := os.Open(file)
	if err != nil {
		return DefaultConfig(), err
	}
	defer r.Close()
	return ReadConfig(r)
}

func ReadConfig(r io.Reader) (Config, error) {
	var (
		cfg  = DefaultConfig()
		data = make(map[string]any)
	)
	if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
		return cfg, err
	}
	return cfg, configureTable(&cfg, nil, data)
}

// Configure applies the value of a single option given by its path.
func (c *Config) Configure(path []string, value any) error {
	fn, ok := directiveTrie.Get(path)
	if !ok || fn == nil {
		return fmt.Errorf("%w: %s: option not found", ErrOption, strings.Join(path, "."))
	}
	if err := fn(c, value); err != nil {
		return fmt.Errorf("%s: %w", strings.Join(path, "."), err)
	}
	return nil
}

func configureTable(cfg *Config, path []string, table map[string]any) error {
	for key, value := range table {
		curr := append(path[:len(path):len(path)], key)
		if _, ok := directiveTrie.Get(curr); ok {
			if err := cfg.Configure(curr, value); err != nil {
				return err
			}
			continue
		}
		sub, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s: option not found", ErrOption, strings.Join(curr, "."))
		}
		if err := configureTable(cfg, curr, sub); err != nil {
			return err
		}
	}
	return nil
}

func configureDepth(cfg *Config, value any) error {
	var depth int
	switch v := value.(type) {
	case int:
		depth = v
	case int64:
		depth = int(v)
	case float64:
		depth = int(v)
	default:
		return fmt.Errorf("%w: integer expected", ErrOption)
	}
	if depth <= 0 {
		return fmt.Errorf("%w: depth should be greater than 0", ErrOption)
	}
	cfg.MaxDepth = depth
	return nil
}

func configureAliases(cfg *Config, value any) error {
	table, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: table expected", ErrOption)
	}
	if cfg.Aliases == nil {
		cfg.Aliases = make(map[string]string)
	}
	for alias, v := range table {
		target, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: %s: function name expected", ErrOption, alias)
		}
		cfg.Aliases[alias] = target
	}
	return nil
}

func configureLogLevel(cfg *Config, value any) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: string expected", ErrOption)
	}
	switch str = strings.ToLower(str); str {
	case "debug", "info", "warn", "error":
		cfg.Log.Level = str
	default:
		return fmt.Errorf("%w: %s: unknown level", ErrOption, str)
	}
	return nil
}

func configureLogFormat(cfg *Config, value any) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: string expected", ErrOption)
	}
	switch str = strings.ToLower(str); str {
	case "text", "json":
		cfg.Log.Format = str
	default:
		return fmt.Errorf("%w: %s: unknown format", ErrOption, str)
	}
	return nil
}
