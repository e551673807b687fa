package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.HelpCenter.HTTPTimeout = 5 * time.Second
	cfg.HelpCenter.UserAgent = "helpw-test/1.0"
	cfg.HelpCenter.AllowInsecure = true
	cfg.Widget.TransitionDelay = 0
	cfg.Cache.Enabled = false
	cfg.Search.Enabled = false
	cfg.Log.Level = "off"
	cfg.Log.File = ""
	return cfg
}
