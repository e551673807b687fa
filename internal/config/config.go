package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pders01/helpw/internal/helpcenter"
	"github.com/pders01/helpw/internal/validation"
	"github.com/pders01/helpw/internal/widget"
)

type Config struct {
	HelpCenter HelpCenterConfig `mapstructure:"help_center"`
	Widget     WidgetConfig     `mapstructure:"widget"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Search     SearchConfig     `mapstructure:"search"`
	Log        LogConfig        `mapstructure:"log"`
	UI         UIConfig         `mapstructure:"ui"`
	Keys       KeyConfig        `mapstructure:"keys"`
	Browser    BrowserConfig    `mapstructure:"browser"`
}

type HelpCenterConfig struct {
	Subdomain     string        `mapstructure:"subdomain"`
	BaseURL       string        `mapstructure:"base_url"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout"`
	UserAgent     string        `mapstructure:"user_agent"`
	AllowInsecure bool          `mapstructure:"allow_insecure"`
}

type WidgetConfig struct {
	MaxResults      int           `mapstructure:"max_results"`
	SnippetLength   int           `mapstructure:"snippet_length"`
	MinQueryLength  int           `mapstructure:"min_query_length"`
	FallbackTerm    string        `mapstructure:"fallback_term"`
	PagePath        string        `mapstructure:"page_path"`
	TransitionDelay time.Duration `mapstructure:"transition_delay"`
	StaleGuard      bool          `mapstructure:"stale_guard"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Path    string        `mapstructure:"path"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type SearchConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	IndexPath string `mapstructure:"index_path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

// KeyBindings holds plain keys; Refresh and OpenLink are combined with the modifier.
type KeyBindings struct {
	Quit       string `mapstructure:"quit"`
	Search     string `mapstructure:"search"`
	SwitchPane string `mapstructure:"switch_pane"`
	Refresh    string `mapstructure:"refresh"`
	OpenLink   string `mapstructure:"open_link"`
	Back       string `mapstructure:"back"`
	Help       string `mapstructure:"help"`
}

type BrowserConfig struct {
	DefaultOpener string `mapstructure:"default_opener"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".helpw")

	return &Config{
		HelpCenter: HelpCenterConfig{
			Subdomain:   "manuonline",
			HTTPTimeout: 30 * time.Second,
			UserAgent:   "helpw/1.0 (https://github.com/pders01/helpw)",
		},
		Widget: WidgetConfig{
			MaxResults:      widget.DefaultMaxResults,
			SnippetLength:   widget.DefaultSnippetLength,
			MinQueryLength:  widget.DefaultMinQueryLength,
			FallbackTerm:    widget.DefaultFallbackTerm,
			TransitionDelay: 50 * time.Millisecond,
			StaleGuard:      true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(dataDir, "cache.db"),
			TTL:     15 * time.Minute,
		},
		Search: SearchConfig{
			Enabled:   true,
			IndexPath: filepath.Join(dataDir, "index.bleve"),
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(dataDir, "helpw.log"),
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#03363D",
				Secondary:  "#17494D",
				Accent:     "#78A300",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:       "q",
				Search:     "/",
				SwitchPane: "tab",
				Refresh:    "r",
				OpenLink:   "o",
				Back:       "esc",
				Help:       "?",
			},
		},
		Browser: BrowserConfig{
			DefaultOpener: getDefaultOpener(),
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// Dir is where the config file and the user opener table live.
func Dir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "helpw")
}

// envKeys can be set as HELPW_<SECTION>_<KEY>, e.g. HELPW_HELP_CENTER_SUBDOMAIN.
var envKeys = []string{
	"help_center.subdomain",
	"help_center.base_url",
	"help_center.http_timeout",
	"help_center.allow_insecure",
	"widget.page_path",
	"cache.enabled",
	"cache.path",
	"search.enabled",
	"search.index_path",
	"log.level",
	"log.file",
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(Dir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("HELPW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// Decoding over the defaults keeps keys a partial file leaves out.
	config := *defaultConfig()
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := expandPaths(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func expandPaths(cfg *Config) error {
	for _, p := range []*string{&cfg.Cache.Path, &cfg.Search.IndexPath, &cfg.Log.File} {
		if *p == "" {
			continue
		}
		expanded, err := validation.DataPath(*p)
		if err != nil {
			return fmt.Errorf("invalid path in config: %w", err)
		}
		*p = expanded
	}
	return nil
}

// APIBase resolves the help-center API root: base_url when set, otherwise the
// Zendesk URL for the subdomain.
func (c *Config) APIBase() (string, error) {
	v := validation.NewEndpointValidator()
	if c.HelpCenter.AllowInsecure {
		v = validation.NewPermissiveEndpointValidator()
	}

	if c.HelpCenter.BaseURL != "" {
		base, err := v.ValidateAndNormalize(c.HelpCenter.BaseURL)
		if err != nil {
			return "", fmt.Errorf("help_center.base_url: %w", err)
		}
		return base, nil
	}

	if err := validation.ValidateSubdomain(c.HelpCenter.Subdomain); err != nil {
		return "", fmt.Errorf("help_center.subdomain: %w", err)
	}
	return helpcenter.BaseURL(c.HelpCenter.Subdomain), nil
}

// WidgetOptions converts the widget section, falling back to defaults for
// non-positive limits.
func (c *Config) WidgetOptions() widget.Options {
	opts := widget.DefaultOptions()
	w := c.Widget
	if w.MaxResults > 0 {
		opts.MaxResults = w.MaxResults
	}
	if w.SnippetLength > 0 {
		opts.SnippetLength = w.SnippetLength
	}
	if w.MinQueryLength > 0 {
		opts.MinQueryLength = w.MinQueryLength
	}
	if w.FallbackTerm != "" {
		opts.FallbackTerm = w.FallbackTerm
	}
	if w.TransitionDelay >= 0 {
		opts.TransitionDelay = w.TransitionDelay
	}
	opts.PagePath = w.PagePath
	opts.StaleGuard = w.StaleGuard
	return opts
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings for TOML readability, keys in snake_case
	hcCfg := map[string]interface{}{
		"subdomain":      config.HelpCenter.Subdomain,
		"base_url":       config.HelpCenter.BaseURL,
		"http_timeout":   config.HelpCenter.HTTPTimeout.String(),
		"user_agent":     config.HelpCenter.UserAgent,
		"allow_insecure": config.HelpCenter.AllowInsecure,
	}

	widgetCfg := map[string]interface{}{
		"max_results":      config.Widget.MaxResults,
		"snippet_length":   config.Widget.SnippetLength,
		"min_query_length": config.Widget.MinQueryLength,
		"fallback_term":    config.Widget.FallbackTerm,
		"page_path":        config.Widget.PagePath,
		"transition_delay": config.Widget.TransitionDelay.String(),
		"stale_guard":      config.Widget.StaleGuard,
	}

	cacheCfg := map[string]interface{}{
		"enabled": config.Cache.Enabled,
		"path":    config.Cache.Path,
		"ttl":     config.Cache.TTL.String(),
	}

	v.Set("help_center", hcCfg)
	v.Set("widget", widgetCfg)
	v.Set("cache", cacheCfg)
	v.Set("search", map[string]interface{}{
		"enabled":    config.Search.Enabled,
		"index_path": config.Search.IndexPath,
	})
	v.Set("log", map[string]interface{}{
		"level": config.Log.Level,
		"file":  config.Log.File,
	})
	c := config.UI.Colors
	v.Set("ui", map[string]interface{}{
		"colors": map[string]interface{}{
			"primary":    c.Primary,
			"secondary":  c.Secondary,
			"accent":     c.Accent,
			"background": c.Background,
			"surface":    c.Surface,
			"text":       c.Text,
			"muted":      c.Muted,
			"error":      c.Error,
			"success":    c.Success,
		},
	})
	b := config.Keys.Bindings
	v.Set("keys", map[string]interface{}{
		"modifier": config.Keys.Modifier,
		"bindings": map[string]interface{}{
			"quit":        b.Quit,
			"search":      b.Search,
			"switch_pane": b.SwitchPane,
			"refresh":     b.Refresh,
			"open_link":   b.OpenLink,
			"back":        b.Back,
			"help":        b.Help,
		},
	})
	v.Set("browser", map[string]interface{}{
		"default_opener": config.Browser.DefaultOpener,
	})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
