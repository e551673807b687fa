package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/helpw/internal/app"
	"github.com/pders01/helpw/internal/browser"
	"github.com/pders01/helpw/internal/config"
	"github.com/pders01/helpw/internal/debuglog"
	"github.com/pders01/helpw/internal/helpcenter"
	"github.com/pders01/helpw/internal/search"
	"github.com/pders01/helpw/internal/storage"
	"github.com/pders01/helpw/internal/tui"
	"github.com/pders01/helpw/internal/widget"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath  string
	logLevel    string
	pagePath    string
	quiet       bool
	offline     bool
	concurrency int
)

var rootCmd = &cobra.Command{
	Use:           "helpw",
	Short:         "Browse a Zendesk Help Center from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("helpw %s\n", Version)
		fmt.Println("Help Center widget")
		fmt.Println("github.com/pders01/helpw")
	},
}

var configGenCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Write the default config file",
	Run: func(cmd *cobra.Command, args []string) {
		configFile := filepath.Join(config.Dir(), "config.toml")
		if err := config.GenerateDefaultConfig(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search articles and print the top results",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories and their sections",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Crawl every article into the offline search index",
	Args:  cobra.NoArgs,
	RunE:  runIndex,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error, off)")
	rootCmd.Flags().StringVar(&pagePath, "path", "", "Page path used to pick relevant articles")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Skip startup banner")

	searchCmd.Flags().BoolVar(&offline, "offline", false, "Query the local index instead of the API")
	indexCmd.Flags().IntVar(&concurrency, "concurrency", app.DefaultConcurrency, "Parallel requests while crawling")

	rootCmd.AddCommand(versionCmd, configGenCmd, searchCmd, categoriesCmd, indexCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides and logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		return nil, fmt.Errorf("setting up log: %w", err)
	}
	return cfg, nil
}

// openService builds the API client and attaches the cache and, when
// withIndex is set, the search index. A cache or index that fails to open is
// logged and left out.
func openService(cfg *config.Config, withIndex bool) (*app.Service, func(), error) {
	base, err := cfg.APIBase()
	if err != nil {
		return nil, nil, err
	}
	client := helpcenter.NewClient(base, cfg.HelpCenter.UserAgent, &http.Client{Timeout: cfg.HelpCenter.HTTPTimeout})

	var (
		opts    []app.Option
		closers []io.Closer
	)
	if cfg.Cache.Enabled {
		store, err := openStore(cfg.Cache.Path)
		if err != nil {
			debuglog.Warnf("response cache disabled: %v", err)
		} else {
			opts = append(opts, app.WithCache(store, cfg.Cache.TTL))
			closers = append(closers, store)
		}
	}
	if withIndex && cfg.Search.Enabled {
		idx, err := search.NewIndex(cfg.Search.IndexPath)
		if err != nil {
			debuglog.Warnf("search index disabled: %v", err)
		} else {
			opts = append(opts, app.WithIndex(idx))
			closers = append(closers, idx)
		}
	}

	closeAll := func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				debuglog.Warnf("close: %v", err)
			}
		}
		debuglog.Close()
	}
	return app.NewService(client, opts...), closeAll, nil
}

func openStore(path string) (*storage.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return storage.NewStore(path)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if pagePath != "" {
		cfg.Widget.PagePath = pagePath
	}
	tui.ApplyTheme(cfg.UI.Colors)

	if !quiet {
		tui.ShowBanner(Version)
	}

	svc, closeAll, err := openService(cfg, true)
	if err != nil {
		return err
	}
	defer closeAll()

	launcher := browser.NewLauncher(cfg.Browser.DefaultOpener, filepath.Join(config.Dir(), "openers.toml"))
	model := tui.NewApp(cfg, widget.NewFetcher(svc.Live(), cfg.WidgetOptions()),
		tui.WithRefresher(svc),
		tui.WithOpener(launcher),
	)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := cfg.WidgetOptions()

	term, ok := widget.NormalizeQuery(strings.Join(args, " "), opts.MinQueryLength)
	if !ok {
		return fmt.Errorf("search term must be at least %d characters", opts.MinQueryLength)
	}

	svc, closeAll, err := openService(cfg, offline)
	if err != nil {
		return err
	}
	defer closeAll()

	var arts []helpcenter.Article
	if offline {
		arts, err = svc.SearchOffline(term, opts.MaxResults)
		if errors.Is(err, app.ErrNoIndex) {
			return fmt.Errorf("%w: set search.enabled and run `helpw index`", err)
		}
	} else {
		arts, err = svc.SearchArticles(cmd.Context(), term)
		arts = widget.Limit(arts, opts.MaxResults)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(arts) == 0 {
		fmt.Fprintln(out, "No articles found")
		return nil
	}
	for i, a := range arts {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, a.Title)
		if s := widget.Snippet(a.Body, opts.SnippetLength); s != "" {
			fmt.Fprintf(out, "  %s\n", s)
		}
		fmt.Fprintf(out, "  %s\n", a.HTMLURL)
	}
	return nil
}

func runCategories(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, closeAll, err := openService(cfg, false)
	if err != nil {
		return err
	}
	defer closeAll()

	tree, err := svc.Tree(cmd.Context(), false, app.DefaultConcurrency)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, node := range tree {
		fmt.Fprintf(out, "%s (%d)\n", node.Category.Name, node.Category.ID)
		for _, sec := range node.Sections {
			fmt.Fprintf(out, "  %s (%d)\n", sec.Section.Name, sec.Section.ID)
		}
	}
	return nil
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Search.Enabled {
		return errors.New("search index is disabled (search.enabled = false)")
	}
	svc, closeAll, err := openService(cfg, true)
	if err != nil {
		return err
	}
	defer closeAll()

	stats, err := svc.Crawl(cmd.Context(), concurrency)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d articles from %d sections in %d categories\n",
		stats.Articles, stats.Sections, stats.Categories)
	return nil
}
