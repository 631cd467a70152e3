package main

import (
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/agenticmentor/mentor/internal/agents"
	"github.com/agenticmentor/mentor/internal/capability"
	"github.com/agenticmentor/mentor/internal/config"
	"github.com/agenticmentor/mentor/internal/intent"
	"github.com/agenticmentor/mentor/internal/orchestrator"
	"github.com/agenticmentor/mentor/internal/registry"
	"github.com/agenticmentor/mentor/internal/state"
)

// App bundles the wired components behind one Close.
type App struct {
	Config       *config.Config
	Orchestrator *orchestrator.Orchestrator
	State        *state.Manager

	db        *state.DB
	logger    *orchestrator.DebugLogger
	caps      *capability.Store
	completer agents.Completer
	watcher   *config.Watcher
}

// WatchConfig reloads the classifier when the user config file changes, so
// a long-lived chat picks up a classifier.mode edit without a restart.
func (a *App) WatchConfig() {
	watcher, err := config.NewWatcher(func(cfg *config.Config) {
		a.Orchestrator.SetClassifier(a.classifierFor(cfg))
	})
	if err != nil {
		return
	}
	a.watcher = watcher
}

func (a *App) classifierFor(cfg *config.Config) intent.Classifier {
	if cfg.Classifier.Mode == config.ClassifierLLM && a.completer != nil {
		return intent.NewLLMClassifier(a.completer, a.caps, intent.DefaultPatterns())
	}
	return intent.NewRuleClassifier(intent.DefaultPatterns())
}

// buildApp loads config and wires the orchestrator: SQLite-backed state,
// the default collaborators, and a classifier. An LLM client is attached
// when credentials are available; everything degrades to the rule-based
// paths without one.
func buildApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return buildAppFromConfig(cfg)
}

func buildAppFromConfig(cfg *config.Config) (*App, error) {
	dbPath := cfg.Store.Path
	if dbPath == "" {
		dbPath = state.DefaultDBPath()
	}
	db, err := state.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate session store: %w", err)
	}

	manager := state.NewManager(db)
	caps := capability.DefaultStore()

	var completer agents.Completer
	apiKey, keyErr := config.GetAPIKey(cfg)
	if keyErr != nil && !errors.Is(keyErr, config.ErrNoAPIKey) {
		db.Close()
		return nil, keyErr
	}
	if apiKey != "" || cfg.Bedrock.Enabled {
		client, err := agents.NewLLMClient(agents.LLMConfig{
			Model:         anthropic.Model(cfg.Anthropic.Model),
			APIKey:        apiKey,
			UseAWSBedrock: cfg.Bedrock.Enabled,
			AWSRegion:     cfg.Bedrock.Region,
			AWSProfile:    cfg.Bedrock.Profile,
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("create LLM client: %w", err)
		}
		completer = client
	}

	logger, err := orchestrator.NewDebugLogger(cfg.Logging.DebugLog)
	if err != nil {
		db.Close()
		return nil, err
	}

	app := &App{
		Config:    cfg,
		State:     manager,
		db:        db,
		logger:    logger,
		caps:      caps,
		completer: completer,
	}
	app.Orchestrator = orchestrator.New(orchestrator.Options{
		State:        manager,
		Classifier:   app.classifierFor(cfg),
		Capabilities: caps,
		Registry:     registry.Default(completer),
		Logger:       logger,
	})
	return app, nil
}

// Close releases the store, the config watcher, and the debug log.
func (a *App) Close() error {
	if a.watcher != nil {
		a.watcher.Close()
	}
	a.logger.Close()
	return a.db.Close()
}
