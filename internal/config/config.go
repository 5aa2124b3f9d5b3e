package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const DefaultPort = 8000

var ErrInvalidConfig = fmt.Errorf("invalid config")

type Config struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	MaxLineLength  int `yaml:"max_line_length"`
	MaxHeaderLines int `yaml:"max_header_lines"`

	// Sequential serves one connection at a time on the accept loop.
	Sequential bool `yaml:"sequential"`
	// StrictResponses answers malformed or oversized requests with 400
	// instead of dropping the connection.
	StrictResponses bool `yaml:"strict_responses"`
	EscapePaths     bool `yaml:"escape_paths"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func Default() Config {
	return Config{
		Host:           "",
		Port:           DefaultPort,
		MaxLineLength:  8 * 1024,
		MaxHeaderLines: 256,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.MaxLineLength <= 0 {
		return fmt.Errorf("%w: max_line_length must be positive", ErrInvalidConfig)
	}
	if c.MaxHeaderLines <= 0 {
		return fmt.Errorf("%w: max_header_lines must be positive", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}

	return nil
}

// LoadFile overlays the YAML document at path onto c. Unknown keys are
// rejected.
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	return nil
}

func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Host, "host", c.Host, "address to listen on")
	fs.IntVar(&c.Port, "port", c.Port, "port number")
	fs.IntVar(&c.MaxLineLength, "max-line-length", c.MaxLineLength, "longest accepted request line or header line in bytes")
	fs.IntVar(&c.MaxHeaderLines, "max-header-lines", c.MaxHeaderLines, "most lines accepted in a request head")
	fs.BoolVar(&c.Sequential, "sequential", c.Sequential, "handle one connection at a time")
	fs.BoolVar(&c.StrictResponses, "strict", c.StrictResponses, "reply 400 to malformed requests instead of closing")
	fs.BoolVar(&c.EscapePaths, "escape-paths", c.EscapePaths, "HTML-escape the path on 404 pages")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format (text, json)")
}

// Parse builds a Config from defaults, then the file named by -config, then
// the remaining flags.
func Parse(name string, args []string) (Config, error) {
	path, err := configPath(name, args)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return Config{}, err
		}
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.String("config", path, "path to a YAML config file")
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

func configPath(name string, args []string) (string, error) {
	scratch := Default()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	path := fs.String("config", "", "")
	scratch.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil && !errors.Is(err, flag.ErrHelp) {
		return "", err
	}

	return *path, nil
}
