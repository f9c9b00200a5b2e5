package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"isomagic/internal/catalog"
	"isomagic/internal/config"
	"isomagic/internal/journal"
	"isomagic/internal/logging"
	"isomagic/internal/runlock"
	"isomagic/internal/services"
)

type commandContext struct {
	configFlag *string
	verbose    *bool
	quiet      *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	journal *journal.Store
}

func newCommandContext(configFlag *string, verbose, quiet *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
		quiet:      quiet,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("%w: %w", services.ErrConfiguration, err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) verboseEnabled() bool {
	return c.verbose != nil && *c.verbose
}

func (c *commandContext) quietEnabled() bool {
	return c.quiet != nil && *c.quiet
}

// loggerValue builds the command logger once. Logger setup failures fall back
// to stderr-only logging rather than failing the command.
func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue(), c.verboseEnabled())
		if err != nil {
			fallback, _ := logging.New(logging.Options{Level: "warn", Format: "console"})
			logging.WarnWithContext(fallback, "log file unavailable", "logger_setup_failed",
				logging.Error(err),
				logging.Hint("check log_dir in the configuration"),
			)
			logger = fallback
		}
		c.logger = logger
	})
	return c.logger
}

// journalStore opens the journal on first use. It returns nil when the
// journal is disabled or cannot be opened; the latter is logged.
func (c *commandContext) journalStore() *journal.Store {
	if c.journal != nil {
		return c.journal
	}
	cfg := c.configValue()
	if cfg == nil || !cfg.Journal.Enabled {
		return nil
	}
	store, err := journal.Open(cfg.JournalPath())
	if err != nil {
		logging.WarnWithContext(c.loggerValue(), "journal unavailable; continuing without history", "journal_open_failed",
			logging.String("path", cfg.JournalPath()),
			logging.Error(err),
			logging.Hint("delete the journal file if its schema is outdated"),
		)
		return nil
	}
	c.journal = store
	return store
}

// requireJournal is journalStore for commands that only read history.
func (c *commandContext) requireJournal() (*journal.Store, error) {
	cfg := c.configValue()
	if cfg == nil {
		return nil, errors.New("configuration unavailable")
	}
	if !cfg.Journal.Enabled {
		return nil, fmt.Errorf("%w: journal is disabled (set journal.enabled = true)", services.ErrConfiguration)
	}
	if c.journal != nil {
		return c.journal, nil
	}
	store, err := journal.Open(cfg.JournalPath())
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	c.journal = store
	return store, nil
}

func (c *commandContext) close() error {
	if c.journal == nil {
		return nil
	}
	err := c.journal.Close()
	c.journal = nil
	return err
}

// withLock runs fn while holding the single-instance run lock.
func (c *commandContext) withLock(fn func() error) error {
	cfg := c.configValue()
	if cfg == nil {
		return errors.New("configuration unavailable")
	}
	lock, err := runlock.Acquire(cfg.LockPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			c.loggerValue().Warn("failed to release run lock", logging.Error(err))
		}
	}()
	return fn()
}

func (c *commandContext) loadCatalog(path string) (*catalog.Catalog, error) {
	cfg := c.configValue()
	if strings.TrimSpace(path) == "" {
		path = cfg.Paths.Catalog
	} else {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return nil, err
		}
		path = expanded
	}
	cat, err := catalog.Load(path, catalog.Options{ExcludedPrefixes: cfg.Matching.ExcludedPrefixes})
	if err != nil {
		return nil, err
	}
	stats := cat.Stats()
	c.loggerValue().Info("catalog loaded",
		logging.String(logging.FieldComponent, "catalog"),
		logging.String("path", path),
		logging.Int("entries", cat.Len()),
		logging.Int("malformed", stats.Malformed),
		logging.Int("excluded", stats.Excluded),
		logging.Int("duplicates", stats.Duplicates),
	)
	return cat, nil
}

// runSession tracks one journaled pass.
type runSession struct {
	ctx   context.Context
	store *journal.Store
	run   *journal.Run
}

// beginRun starts a journal run when the journal is available and annotates
// ctx with the run ID and operation for logging.
func (c *commandContext) beginRun(ctx context.Context, kind journal.Kind, dir string, dryRun bool) *runSession {
	ctx = services.WithOperation(ctx, string(kind))
	session := &runSession{ctx: ctx}
	store := c.journalStore()
	if store == nil {
		return session
	}
	run, err := store.BeginRun(ctx, kind, dir, dryRun)
	if err != nil {
		logging.WarnWithContext(c.loggerValue(), "journal run not recorded", "journal_write_failed",
			logging.Error(err),
			logging.Hint("check the state directory is writable"),
		)
		return session
	}
	session.store = store
	session.run = run
	session.ctx = services.WithRunID(ctx, run.ID)
	return session
}

func (s *runSession) runID() string {
	if s == nil || s.run == nil {
		return ""
	}
	return s.run.ID
}

type actionRecorder interface {
	RecordAction(ctx context.Context, action journal.Action) error
}

// recorder returns the journal, or an untyped nil when the run is not journaled.
func (s *runSession) recorder() actionRecorder {
	if s == nil || s.run == nil {
		return nil
	}
	return s.store
}

func (s *runSession) finish(logger *slog.Logger, summary journal.Summary, runErr error) {
	if s == nil || s.run == nil {
		return
	}
	if err := s.store.FinishRun(context.WithoutCancel(s.ctx), s.run.ID, summary, runErr); err != nil {
		logging.WarnWithContext(logger, "journal run not finalized", "journal_write_failed",
			logging.Error(err),
			logging.Hint("check the state directory is writable"),
		)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
