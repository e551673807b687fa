package browser

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"

	"github.com/pelletier/go-toml/v2"
)

//go:embed openers.toml
var openersTOML []byte

// OpenerDefinition describes how to invoke one URL opener.
type OpenerDefinition struct {
	Description string   `toml:"description"`
	Command     string   `toml:"command,omitempty"`
	Args        []string `toml:"args,omitempty"`
}

type PlatformOpeners struct {
	Openers []string `toml:"openers"`
}

type OpenersConfig struct {
	Platforms map[string]PlatformOpeners  `toml:"platforms"`
	Openers   map[string]OpenerDefinition `toml:"openers"`
}

// Registry holds opener definitions and per-platform preference lists.
type Registry struct {
	platforms map[string]PlatformOpeners
	openers   map[string]OpenerDefinition
}

// NewRegistry parses the embedded table and merges the file at userPath over
// it when that file exists. A broken user file still yields the built-in table.
func NewRegistry(userPath string) (*Registry, error) {
	cfg, err := parseOpeners(openersTOML)
	if err != nil {
		return nil, fmt.Errorf("parsing openers.toml: %w", err)
	}

	r := &Registry{platforms: cfg.Platforms, openers: cfg.Openers}
	if r.platforms == nil {
		r.platforms = make(map[string]PlatformOpeners)
	}
	if r.openers == nil {
		r.openers = make(map[string]OpenerDefinition)
	}

	if userPath != "" {
		if err := r.merge(userPath); err != nil {
			return r, err
		}
	}
	return r, nil
}

func parseOpeners(data []byte) (OpenersConfig, error) {
	var cfg OpenersConfig
	err := toml.Unmarshal(data, &cfg)
	return cfg, err
}

func (r *Registry) merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	user, err := parseOpeners(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	for name, def := range user.Openers {
		r.openers[name] = def
	}
	for goos, p := range user.Platforms {
		r.platforms[goos] = p
	}
	return nil
}

// Candidates lists the openers to try on goos.
func (r *Registry) Candidates(goos string) []string {
	return append([]string(nil), r.platforms[goos].Openers...)
}

// Command builds the process that opens url with the named opener. Unknown
// names run as a bare command with the URL as its only argument.
func (r *Registry) Command(name, url string) *exec.Cmd {
	def, ok := r.openers[name]
	if !ok {
		return exec.Command(name, url)
	}
	bin := def.Command
	if bin == "" {
		bin = name
	}
	args := append(append([]string(nil), def.Args...), url)
	return exec.Command(bin, args...)
}

// Executable is the binary that has to be on PATH for name to work.
func (r *Registry) Executable(name string) string {
	if def, ok := r.openers[name]; ok && def.Command != "" {
		return def.Command
	}
	return name
}
