// Package config loads faqmatch configuration from defaults, YAML files and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
	"github.com/Aman-CERP/faqmatch/internal/logging"
)

// Stop-word list names accepted by matcher.stop_words.
const (
	StopWordsEnglish = "english"
	StopWordsNone    = "none"
)

// Default user-facing messages, worded as the admissions chatbot shipped them.
const (
	DefaultFallbackMessage    = "I'm not confident about that. Please check the FAQs below or contact admissions at the college website."
	DefaultUnavailableMessage = "FAQ data not available. Please contact the admissions office."
)

// Config represents the complete faqmatch configuration.
type Config struct {
	Version  int            `yaml:"version" json:"version"`
	Corpus   CorpusConfig   `yaml:"corpus" json:"corpus"`
	Matcher  MatcherConfig  `yaml:"matcher" json:"matcher"`
	Server   ServerConfig   `yaml:"server" json:"server"`
	Messages MessagesConfig `yaml:"messages" json:"messages"`
}

// CorpusConfig configures where FAQ entries come from.
type CorpusConfig struct {
	// Path is the FAQ source: .json, .yaml/.yml or a SQLite database.
	Path string `yaml:"path" json:"path"`
	// Watch reloads the corpus when the file changes.
	Watch bool `yaml:"watch" json:"watch"`
	// WatchDebounce coalesces bursts of file events (e.g. "500ms").
	WatchDebounce string `yaml:"watch_debounce" json:"watch_debounce"`
}

// MatcherConfig configures indexing and the answer decision.
type MatcherConfig struct {
	// Threshold is the minimum cosine score for a confident answer.
	Threshold float64 `yaml:"threshold" json:"threshold"`
	// MaxSuggestions bounds the runner-up list.
	MaxSuggestions int `yaml:"max_suggestions" json:"max_suggestions"`
	NgramMin       int `yaml:"ngram_min" json:"ngram_min"`
	NgramMax       int `yaml:"ngram_max" json:"ngram_max"`
	// StopWords names the base stop list: "english" or "none".
	StopWords      string   `yaml:"stop_words" json:"stop_words"`
	ExtraStopWords []string `yaml:"extra_stop_words" json:"extra_stop_words"`
	// CacheSize is the number of match results cached per corpus snapshot. 0 disables.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host           string   `yaml:"host" json:"host"`
	Port           int      `yaml:"port" json:"port"`
	StaticDir      string   `yaml:"static_dir" json:"static_dir"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
	LogLevel       string   `yaml:"log_level" json:"log_level"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes" json:"max_body_bytes"`
}

// MessagesConfig holds the canned answers returned when no entry is confident.
type MessagesConfig struct {
	Fallback    string `yaml:"fallback" json:"fallback"`
	Unavailable string `yaml:"unavailable" json:"unavailable"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Corpus: CorpusConfig{
			Path:          "faqs.json",
			Watch:         true,
			WatchDebounce: "500ms",
		},
		Matcher: MatcherConfig{
			Threshold:      0.25,
			MaxSuggestions: 3,
			NgramMin:       1,
			NgramMax:       3,
			StopWords:      StopWordsEnglish,
			ExtraStopWords: []string{},
			CacheSize:      1024,
		},
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           5000,
			AllowedOrigins: []string{"*"},
			LogLevel:       "info",
			MaxBodyBytes:   64 << 10,
		},
		Messages: MessagesConfig{
			Fallback:    DefaultFallbackMessage,
			Unavailable: DefaultUnavailableMessage,
		},
	}
}

// GetUserConfigPath returns the path to the user/global configuration file.
// It follows XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/faqmatch/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/faqmatch/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "faqmatch", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "faqmatch", "config.yaml")
	}
	return filepath.Join(home, ".config", "faqmatch", "config.yaml")
}

// ProjectConfigPath returns the project config file in dir, preferring
// .faqmatch.yaml over .faqmatch.yml. Empty when neither exists.
func ProjectConfigPath(dir string) string {
	for _, name := range []string{".faqmatch.yaml", ".faqmatch.yml"} {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// Load loads configuration for the project in dir.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User/global config (~/.config/faqmatch/config.yaml)
//  3. Project config (.faqmatch.yaml in dir)
//  4. Environment variables (FAQMATCH_*)
//
// CLI flags are applied by the caller afterwards.
// A relative corpus.path in a project config is resolved against dir.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userPath := GetUserConfigPath(); fileExists(userPath) {
		if err := cfg.loadYAML(userPath); err != nil {
			return nil, err
		}
	}

	if projectPath := ProjectConfigPath(dir); projectPath != "" {
		if err := cfg.loadYAML(projectPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if cfg.Corpus.Path != "" && !filepath.IsAbs(cfg.Corpus.Path) {
		cfg.Corpus.Path = filepath.Join(dir, cfg.Corpus.Path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadYAML decodes path over the current values, so keys absent from the
// file keep whatever an earlier layer set.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeConfigNotFound, "failed to read config file", err).
			WithDetail("path", path)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, "failed to parse config file", err).
			WithDetail("path", path).
			WithSuggestion("Run 'faqmatch config init --force' to regenerate it")
	}
	return nil
}

// applyEnvOverrides applies FAQMATCH_* environment variable overrides.
// Malformed numbers are reported instead of silently ignored.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("FAQMATCH_FAQS"); v != "" {
		c.Corpus.Path = v
	}
	if v := os.Getenv("FAQMATCH_WATCH"); v != "" {
		c.Corpus.Watch = parseBool(v)
	}
	if v := os.Getenv("FAQMATCH_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return envError("FAQMATCH_THRESHOLD", v, err)
		}
		c.Matcher.Threshold = f
	}
	if v := os.Getenv("FAQMATCH_MAX_SUGGESTIONS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return envError("FAQMATCH_MAX_SUGGESTIONS", v, err)
		}
		c.Matcher.MaxSuggestions = n
	}
	if v := os.Getenv("FAQMATCH_STOP_WORDS"); v != "" {
		c.Matcher.StopWords = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("FAQMATCH_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("FAQMATCH_PORT"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return envError("FAQMATCH_PORT", v, err)
		}
		c.Server.Port = n
	}
	if v := os.Getenv("FAQMATCH_STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := os.Getenv("FAQMATCH_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("FAQMATCH_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	return nil
}

func envError(name, value string, err error) error {
	return apperrors.New(apperrors.ErrCodeConfigInvalid, "invalid value for "+name, err).
		WithDetail("value", value)
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// WatchDebounceDuration parses corpus.watch_debounce. Validate guarantees it parses.
func (c *Config) WatchDebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Corpus.WatchDebounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	m := c.Matcher
	if m.Threshold < 0 || m.Threshold > 1 {
		return invalid("matcher.threshold must be between 0 and 1, got %g", m.Threshold)
	}
	if m.MaxSuggestions < 1 {
		return invalid("matcher.max_suggestions must be at least 1, got %d", m.MaxSuggestions)
	}
	if m.NgramMin < 1 || m.NgramMax > 5 || m.NgramMin > m.NgramMax {
		return invalid("matcher n-gram range must satisfy 1 <= ngram_min <= ngram_max <= 5, got %d..%d", m.NgramMin, m.NgramMax)
	}
	switch strings.ToLower(m.StopWords) {
	case StopWordsEnglish, StopWordsNone:
	default:
		return invalid("matcher.stop_words must be 'english' or 'none', got %q", m.StopWords)
	}
	if m.CacheSize < 0 {
		return invalid("matcher.cache_size must be non-negative, got %d", m.CacheSize)
	}

	if d, err := time.ParseDuration(c.Corpus.WatchDebounce); err != nil || d <= 0 {
		return invalid("corpus.watch_debounce must be a positive duration, got %q", c.Corpus.WatchDebounce)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port must be between 0 and 65535, got %d", c.Server.Port)
	}
	if !logging.ValidLevel(c.Server.LogLevel) {
		return invalid("server.log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.Server.LogLevel)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return invalid("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}

	return nil
}

func invalid(format string, args ...any) error {
	return apperrors.New(apperrors.ErrCodeConfigInvalid, fmt.Sprintf(format, args...), nil)
}

// WriteYAML writes the configuration to a YAML file, creating parent directories.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
