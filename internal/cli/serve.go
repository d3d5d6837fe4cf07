package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rio-labs/rioterm/pkg/config"
	"github.com/rio-labs/rioterm/pkg/scene"
	"github.com/rio-labs/rioterm/pkg/session"
)

// serveCommand creates the serve command for running the demo scene server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		rpcAddr  string
		httpAddr string
		sceneDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo scene server",
		Long: `Run the demo scene server.

The server streams scenes to connected rioterm clients over the RPC listener
and exposes a read-only HTTP control surface (health, scene listing, live
sessions) next to it.

Scene and session storage backends come from the config file: scenes can
live in memory (seeded with the built-in set) or MongoDB, sessions in memory
or Redis. --scene-dir loads additional scene files (YAML or JSON) into the
library at startup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), rpcAddr, httpAddr, sceneDir)
		},
	}

	cmd.Flags().StringVar(&rpcAddr, "rpc", "", "RPC listen address (default from config)")
	cmd.Flags().StringVar(&httpAddr, "http", "", "HTTP listen address, empty disables (default from config)")
	cmd.Flags().StringVar(&sceneDir, "scene-dir", "", "directory of scene files to load into the library")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, rpcAddr, httpAddr, sceneDir string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if rpcAddr == "" {
		rpcAddr = cfg.Server.RPCAddr
	}
	if httpAddr == "" {
		httpAddr = cfg.Server.HTTPAddr
	}

	logger := loggerFromContext(ctx)

	scenes, err := c.newSceneStore(ctx, cfg.Server.Scenes)
	if err != nil {
		return err
	}
	if sceneDir != "" {
		p := newProgress(logger)
		n, err := loadSceneDir(ctx, scenes, sceneDir, logger)
		if err != nil {
			return err
		}
		p.done(fmt.Sprintf("Loaded %d scene files", n))
	}
	sessions, err := c.newSessionStore(ctx, cfg.Server.Sessions)
	if err != nil {
		return err
	}

	srv, err := scene.NewServer(scene.Options{
		Scenes:       scenes,
		Sessions:     sessions,
		DefaultScene: cfg.Server.DefaultScene,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx, rpcAddr, httpAddr)
}

// newSceneStore builds the scene library backend named by the config,
// seeding it with the built-in set.
func (c *CLI) newSceneStore(ctx context.Context, cfg config.ScenesConfig) (scene.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return scene.NewMemoryStore(scene.Builtin()...), nil
	case "mongo":
		store, err := scene.NewMongoStore(ctx, scene.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
		if err != nil {
			return nil, err
		}
		if err := store.Seed(ctx, scene.Builtin()...); err != nil {
			return nil, err
		}
		c.Logger.Info("using mongodb scene library", "database", cfg.MongoDatabase)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown scene store backend %q", cfg.Backend)
	}
}

// newSessionStore builds the session store backend named by the config.
func (c *CLI) newSessionStore(ctx context.Context, cfg config.SessionsConfig) (session.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		store, err := session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		c.Logger.Info("using redis session store", "addr", cfg.RedisAddr)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session store backend %q", cfg.Backend)
	}
}

// loadSceneDir loads every scene file in dir into the store and returns how
// many it loaded. Invalid scenes fail startup; a server quietly serving a
// broken scene helps nobody.
func loadSceneDir(ctx context.Context, store scene.Store, dir string, logger *log.Logger) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read scene dir: %w", err)
	}

	tags, err := catalogTags()
	if err != nil {
		return 0, err
	}
	var loaded int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}
		path := filepath.Join(dir, entry.Name())
		sc, err := scene.Load(path)
		if err != nil {
			return loaded, err
		}
		if err := sc.Validate(tags); err != nil {
			return loaded, fmt.Errorf("scene %s: %w", path, err)
		}
		if err := store.Put(ctx, sc); err != nil {
			return loaded, fmt.Errorf("store scene %s: %w", sc.Name, err)
		}
		logger.Debug("loaded scene", "name", sc.Name, "file", entry.Name())
		loaded++
	}
	return loaded, nil
}
