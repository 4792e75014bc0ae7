package cmd

import (
	"fmt"
	"io"
	"log"
	"net/http"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/chapterquiz/internal/config"
	"github.com/abhisek/chapterquiz/internal/cookie"
	"github.com/abhisek/chapterquiz/internal/lessonapi"
	"github.com/abhisek/chapterquiz/internal/lessonpage"
	"github.com/abhisek/chapterquiz/internal/store"
)

// deps is everything a command needs to talk to the lesson site.
type deps struct {
	cfg    config.Config
	grader lessonapi.Grader
	loader *lessonpage.Loader
	store  *store.Store // nil with --no-journal
}

// Close releases the journal database.
func (d *deps) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}

// loadConfig merges environment and persistent flags and validates the
// result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.ConfigFromEnv()
	if v, _ := cmd.Flags().GetString("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("cookie"); v != "" {
		cfg.Cookies = v
	}
	if d := durationFlag(cmd, "timeout"); d != 0 {
		cfg.RequestTimeout = d
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the configured journal path, falling back to the
// default XDG location.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore opens the journal named by cfg.
func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// buildDeps wires the command's configuration into deps. Journal
// failures are reported to warn.
func buildDeps(cmd *cobra.Command, warn io.Writer) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	noJournal, _ := cmd.Flags().GetBool("no-journal")
	return newDeps(cfg, !noJournal, warn)
}

// newDeps builds the cookie jar, HTTP client, grader and page loader for
// cfg. With journal set, grading and completion requests are recorded in
// the local store.
func newDeps(cfg config.Config, journal bool, warn io.Writer) (*deps, error) {
	base := cfg.ParsedBaseURL()

	jar, err := cookie.NewJar()
	if err != nil {
		return nil, err
	}
	if err := cookie.Seed(jar, base, cfg.Cookies); err != nil {
		return nil, fmt.Errorf("seed cookies: %w", err)
	}
	hc := &http.Client{Jar: jar}

	client, err := lessonapi.NewClient(cfg.BaseURL,
		cookie.NewAccessor(jar, base, cfg.CSRFCookieName),
		lessonapi.WithHTTPClient(hc),
		lessonapi.WithTimeout(cfg.RequestTimeout),
		lessonapi.WithCSRFHeader(cfg.CSRFHeader),
	)
	if err != nil {
		return nil, err
	}

	d := &deps{
		cfg:    cfg,
		grader: client,
		loader: lessonpage.NewLoader(hc, base),
	}
	if !journal {
		return d, nil
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	d.store = st
	d.grader = lessonapi.WithJournal(client, st.EventRepo(), uuid.New().String(),
		lessonapi.WithWarnings(warn))
	return d, nil
}

// eventRepo returns the journal repo, or nil with --no-journal.
func (d *deps) eventRepo() store.EventRepo {
	if d.store == nil {
		return nil
	}
	return d.store.EventRepo()
}

// setupDebugLog routes the standard logger to the --debug file, since the
// full-screen UI owns stdout and stderr. The returned func closes it.
func setupDebugLog(cmd *cobra.Command) (func(), error) {
	path, _ := cmd.Flags().GetString("debug")
	if path == "" {
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "chapterquiz")
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	return func() { _ = f.Close() }, nil
}

// tuiWarnings is where journal warnings go while the full-screen UI owns
// the terminal: the --debug log when one is open, nowhere otherwise.
func tuiWarnings(debugPath string) io.Writer {
	if debugPath == "" {
		return io.Discard
	}
	return log.Writer()
}
