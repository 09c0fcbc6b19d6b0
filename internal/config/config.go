package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultSource is the listing analyzed when nothing else is given
	DefaultSource = "https://www.reddit.com/r/webdev.json"

	// DefaultTimeout for HTTP requests
	DefaultTimeout = 30 * time.Second

	// DefaultTopPosts is the number of posts listed in the JSON report
	DefaultTopPosts = 5

	// EnvConfigPath names the environment variable holding a config file path
	EnvConfigPath = "POST_ANALYZER_CONFIG"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrHelp is returned when usage was requested with -h or -help.
var ErrHelp = flag.ErrHelp

// Config holds all configuration for the post analyzer
type Config struct {
	Source        string        `yaml:"source"`
	Pages         int           `yaml:"pages"`
	RateLimit     float64       `yaml:"rate_limit"` // 0 means no limit (unless robots.txt specifies crawl-delay)
	Timeout       time.Duration `yaml:"timeout"`
	RespectRobots bool          `yaml:"respect_robots"`
	Format        string        `yaml:"format"`
	Output        string        `yaml:"output"`
	TopPosts      int           `yaml:"top_posts"`
	Verbose       bool          `yaml:"verbose"`
	LogJSON       bool          `yaml:"log_json"`
}

// Default returns the configuration used when no file or flags are given.
func Default() *Config {
	return &Config{
		Source:   DefaultSource,
		Pages:    1,
		Timeout:  DefaultTimeout,
		Format:   FormatText,
		TopPosts: DefaultTopPosts,
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// ParseFlags parses command line arguments and returns configuration.
// Values are layered: defaults, then the config file (--config or
// POST_ANALYZER_CONFIG), then flags that were set explicitly, then the
// optional positional listing URL.
func ParseFlags(args []string, usageOut io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("post_analyzer", flag.ContinueOnError)
	fs.SetOutput(usageOut)

	flags := Default()
	var configPath string

	fs.StringVar(&configPath, "config", os.Getenv(EnvConfigPath), "Path to YAML config file")
	fs.StringVar(&flags.Source, "source", flags.Source, "Listing URL or glob of saved listing files")
	fs.IntVar(&flags.Pages, "pages", flags.Pages, "Number of listing pages to fetch")
	fs.Float64Var(&flags.RateLimit, "rate-limit", flags.RateLimit, "Requests per second (0 = no limit unless robots.txt specifies)")
	fs.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout")
	fs.BoolVar(&flags.RespectRobots, "respect-robots", flags.RespectRobots, "Honor robots.txt of the listing host")
	fs.StringVar(&flags.Format, "format", flags.Format, "Report format: text or json")
	fs.StringVar(&flags.Output, "output", flags.Output, "Write the report to this file instead of stdout")
	fs.IntVar(&flags.TopPosts, "top-posts", flags.TopPosts, "Number of posts listed in the JSON report")
	fs.BoolVar(&flags.Verbose, "verbose", flags.Verbose, "Enable verbose logging")
	fs.BoolVar(&flags.LogJSON, "log-json", flags.LogJSON, "Write logs as JSON")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	config := Default()
	if configPath != "" {
		if err := config.loadFile(configPath); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		config.override(f.Name, flags)
	})

	switch fs.NArg() {
	case 0:
	case 1:
		config.Source = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected at most one listing URL, got %d arguments", fs.NArg())
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// override copies the value of a single explicitly set flag from flags.
func (c *Config) override(name string, flags *Config) {
	switch name {
	case "source":
		c.Source = flags.Source
	case "pages":
		c.Pages = flags.Pages
	case "rate-limit":
		c.RateLimit = flags.RateLimit
	case "timeout":
		c.Timeout = flags.Timeout
	case "respect-robots":
		c.RespectRobots = flags.RespectRobots
	case "format":
		c.Format = flags.Format
	case "output":
		c.Output = flags.Output
	case "top-posts":
		c.TopPosts = flags.TopPosts
	case "verbose":
		c.Verbose = flags.Verbose
	case "log-json":
		c.LogJSON = flags.LogJSON
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Source == "" {
		return errors.New("--source is required")
	}

	if c.Pages <= 0 {
		return errors.New("--pages must be positive")
	}

	if c.RateLimit < 0 {
		return errors.New("--rate-limit must be non-negative (0 = no limit)")
	}

	if c.Timeout <= 0 {
		return errors.New("--timeout must be positive")
	}

	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("--format must be %q or %q, got %q", FormatText, FormatJSON, c.Format)
	}

	if c.TopPosts < 0 {
		return errors.New("--top-posts must be non-negative")
	}

	return nil
}
