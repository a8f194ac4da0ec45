// Package config handles repository and global configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents repository configuration stored in .bibstat/config.yml.
type Config struct {
	CurrentYear  int           `yaml:"current_year"`  // Reference year for citation velocity
	ExcludeYears []int         `yaml:"exclude_years"` // Years dropped from every analysis (partial years)
	Columns      Columns       `yaml:"columns"`
	Network      NetworkConfig `yaml:"network"`
	Journals     TopConfig     `yaml:"journals"`
	Keywords     KeywordConfig `yaml:"keywords"`
	Stream       StreamConfig  `yaml:"stream"`
	Charts       ChartConfig   `yaml:"charts"`
}

// Columns maps record fields to spreadsheet header names.
type Columns struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	Year         string `yaml:"year"`
	Keywords     string `yaml:"keywords"`
	Journal      string `yaml:"journal"`
	Country      string `yaml:"country"`
	Citations    string `yaml:"citations"`
	ImpactFactor string `yaml:"impact_factor"`
	DOI          string `yaml:"doi"`
}

// NetworkConfig configures the keyword co-occurrence network.
type NetworkConfig struct {
	TopN        int  `yaml:"top_n"`
	DedupePairs bool `yaml:"dedupe_pairs"` // Count each keyword pair at most once per record
	UnicodeNFKC bool `yaml:"unicode_nfkc"` // Fold compatibility forms before lower-casing
}

// TopConfig holds a single "top N" setting.
type TopConfig struct {
	TopN int `yaml:"top_n"`
}

// KeywordConfig configures keyword frequency analyses.
type KeywordConfig struct {
	TopN        int `yaml:"top_n"`         // Keywords in the timeline heatmap
	SummaryTopN int `yaml:"summary_top_n"` // Keywords in the impact summary
}

// StreamConfig lists the topic keywords tracked over time.
type StreamConfig struct {
	Keywords []string `yaml:"keywords"`
}

// ChartConfig controls rendered chart size and location.
type ChartConfig struct {
	Dir      string  `yaml:"dir"`       // Output directory, relative to the repository root
	WidthIn  float64 `yaml:"width_in"`  // Width in inches
	HeightIn float64 `yaml:"height_in"` // Height in inches
}

const (
	BibstatDir  = ".bibstat"
	ConfigFile  = "config.yml"
	RecordsFile = "records.jsonl"
	CacheDir    = "cache"
	DBFile      = "records.db"

	// RootEnv overrides the directory where repository discovery starts.
	RootEnv = "BIBSTAT_ROOT"
	// CurrentYearEnv overrides current_year.
	CurrentYearEnv = "BIBSTAT_CURRENT_YEAR"
)

// DefaultStreamKeywords are the topic keywords tracked by the stream analysis.
var DefaultStreamKeywords = []string{
	"diabetes",
	"diabetes mellitus",
	"glp-1",
	"liraglutide",
	"obesity",
	"semaglutide",
	"type 2 diabetes",
	"type 2 diabetes mellitus",
}

// DefaultColumns returns the Web of Science export header names.
func DefaultColumns() Columns {
	return Columns{
		ID:           "UT (Unique WOS ID)",
		Title:        "Article Title",
		Year:         "Year",
		Keywords:     "Author Keywords",
		Journal:      "Journal Name",
		Country:      "Country",
		Citations:    "Total Citations (All)",
		ImpactFactor: "5-Year IF",
		DOI:          "DOI",
	}
}

// Default returns the configuration used when config.yml is absent.
func Default() *Config {
	stream := make([]string, len(DefaultStreamKeywords))
	copy(stream, DefaultStreamKeywords)
	return &Config{
		CurrentYear:  2025,
		ExcludeYears: []int{2026},
		Columns:      DefaultColumns(),
		Network:      NetworkConfig{TopN: 25},
		Journals:     TopConfig{TopN: 10},
		Keywords:     KeywordConfig{TopN: 10, SummaryTopN: 15},
		Stream:       StreamConfig{Keywords: stream},
		Charts:       ChartConfig{Dir: "charts", WidthIn: 10, HeightIn: 6},
	}
}

// BibstatPath returns the path to the .bibstat directory from a root path.
func BibstatPath(root string) string {
	return filepath.Join(root, BibstatDir)
}

// ConfigPath returns the path to config.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, BibstatDir, ConfigFile)
}

// RecordsPath returns the path to records.jsonl from a root path.
func RecordsPath(root string) string {
	return filepath.Join(root, BibstatDir, RecordsFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, BibstatDir, CacheDir)
}

// DBPath returns the path to records.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, BibstatDir, CacheDir, DBFile)
}

// ChartsPath returns the chart output directory for the repository at root.
func (c *Config) ChartsPath(root string) string {
	dir := ExpandPath(c.Charts.Dir)
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

// IsRepository checks if the given path contains a bibstat repository.
func IsRepository(root string) bool {
	info, err := os.Stat(BibstatPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a bibstat repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a bibstat repository (no %s directory found)", BibstatDir)
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
// Keys missing from config.yml keep their defaults; a missing file yields Default().
func Load(root string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ApplyEnv overrides values from the environment. Unset variables are ignored.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(CurrentYearEnv); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", CurrentYearEnv, v, err)
		}
		c.CurrentYear = year
	}
	return c.Validate()
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if c.CurrentYear <= 0 {
		return fmt.Errorf("invalid current_year: %d", c.CurrentYear)
	}
	if c.Columns.Year == "" {
		return fmt.Errorf("columns.year must be set")
	}
	if c.Network.TopN < 0 {
		return fmt.Errorf("invalid network.top_n: %d (must be >= 0)", c.Network.TopN)
	}
	if c.Journals.TopN < 0 {
		return fmt.Errorf("invalid journals.top_n: %d (must be >= 0)", c.Journals.TopN)
	}
	if c.Keywords.TopN < 0 || c.Keywords.SummaryTopN < 0 {
		return fmt.Errorf("invalid keywords top_n: %d/%d (must be >= 0)", c.Keywords.TopN, c.Keywords.SummaryTopN)
	}
	if c.Charts.WidthIn <= 0 || c.Charts.HeightIn <= 0 {
		return fmt.Errorf("invalid chart size %vx%v inches", c.Charts.WidthIn, c.Charts.HeightIn)
	}
	return nil
}

// IsExcludedYear reports whether year is listed in exclude_years.
func (c *Config) IsExcludedYear(year int) bool {
	for _, y := range c.ExcludeYears {
		if y == year {
			return true
		}
	}
	return false
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
