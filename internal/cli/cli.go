package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/harvester/pkg/buildinfo"
	"github.com/matzehuels/harvester/pkg/cache"
	"github.com/matzehuels/harvester/pkg/config"
	"github.com/matzehuels/harvester/pkg/errors"
	"github.com/matzehuels/harvester/pkg/store"
	"github.com/matzehuels/harvester/pkg/store/memory"
	"github.com/matzehuels/harvester/pkg/store/mongo"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "harvester"

	// memoryScheme selects the in-process store instead of MongoDB.
	memoryScheme = "memory://"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool

	// connectStore opens the store named by the configuration.
	connectStore func(ctx context.Context, cfg config.Config) (store.Store, error)
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), connectStore: openStore}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Harvester collects package authors from public registries",
		Long:         `Harvester crawls npm, GitHub and Packagist by keyword expansion: every package found feeds its keywords back into the search pool, and every credited person with an email is recorded as an author.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML config file (environment variables take precedence)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the response cache")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.stageCommand())
	root.AddCommand(c.keywordsCommand())
	root.AddCommand(c.authorsCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Dependency Factories
// =============================================================================

func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// openStore connects to the configured store. URIs starting with
// memory:// select a throwaway in-process store.
func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if err := cfg.ValidateStore(); err != nil {
		return nil, err
	}
	if strings.HasPrefix(cfg.MongoURI, memoryScheme) {
		return memory.New(), nil
	}

	st, err := mongo.Connect(ctx, cfg.MongoURI, cfg.Database)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to %s", cfg.Redacted().MongoURI)
	}
	if err := st.EnsureIndexes(ctx); err != nil {
		_ = st.Close(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ensure indexes")
	}
	return st, nil
}

// newCache picks the response cache: none with --no-cache, Redis when
// redis_url is set, a file cache otherwise.
func (c *CLI) newCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfig, err, "connect to redis")
		}
		return rc, nil
	}
	dir, err := resolveCacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/harvester/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// resolveCacheDir prefers the configured cache_dir over the XDG default.
func resolveCacheDir(cfg config.Config) (string, error) {
	if cfg.CacheDir != "" {
		return cfg.CacheDir, nil
	}
	return cacheDir()
}
