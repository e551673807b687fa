package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/pders01/helpw/internal/debuglog"
)

// Launcher opens article links outside the terminal.
type Launcher struct {
	registry *Registry
	opener   string

	start func(*exec.Cmd) error
}

// NewLauncher picks the first available opener, preferring defaultOpener.
// userPath may name an openers.toml that overrides the built-in table.
func NewLauncher(defaultOpener, userPath string) *Launcher {
	registry, err := NewRegistry(userPath)
	if err != nil {
		debuglog.Warnf("opener registry: %v", err)
		if registry == nil {
			registry = &Registry{platforms: map[string]PlatformOpeners{}, openers: map[string]OpenerDefinition{}}
		}
	}

	l := &Launcher{registry: registry, start: startDetached}
	l.opener = l.resolve(defaultOpener, runtime.GOOS, exec.LookPath)
	return l
}

func (l *Launcher) resolve(preferred, goos string, lookPath func(string) (string, error)) string {
	candidates := l.registry.Candidates(goos)
	if preferred != "" {
		candidates = append([]string{preferred}, candidates...)
	}
	for _, name := range candidates {
		if _, err := lookPath(l.registry.Executable(name)); err == nil {
			return name
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return ""
}

// Opener is the opener Open will run.
func (l *Launcher) Opener() string {
	return l.opener
}

// Open starts the opener for rawURL and does not wait for it.
func (l *Launcher) Open(rawURL string) error {
	if err := checkURL(rawURL); err != nil {
		return err
	}
	if l.opener == "" {
		return fmt.Errorf("no application found to open URL")
	}

	cmd := l.registry.Command(l.opener, rawURL)
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.opener, err)
	}
	debuglog.WithFields(map[string]any{"opener": l.opener, "url": rawURL}).Infof("opened article link")
	return nil
}

func checkURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid article URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open non-web URL %q", rawURL)
	}
	if u.Host == "" {
		return fmt.Errorf("article URL has no host")
	}
	return nil
}

// startDetached starts GUI applications without blocking on them.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
