package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/adapter"
	"github.com/m-mizutani/tsuzuri/pkg/repository"
	"github.com/m-mizutani/tsuzuri/pkg/usecase/entry"
	"github.com/m-mizutani/tsuzuri/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Repository
	project  string
	database string

	// Embedding service
	geminiProject  string
	geminiLocation string
	embeddingModel string
	embeddingDims  int64

	logLevel string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("TSUZURI_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// geminiFlags returns flags for the embedding service with destination config
func geminiFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini (defaults to --project)",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "embedding-model",
			Usage:       "Embedding model name",
			Value:       "gemini-embedding-001",
			Sources:     cli.EnvVars("TSUZURI_EMBEDDING_MODEL"),
			Destination: &cfg.embeddingModel,
		},
		&cli.IntFlag{
			Name:        "embedding-dimensions",
			Usage:       "Embedding vector dimensions (must match the datastore)",
			Value:       1536,
			Sources:     cli.EnvVars("TSUZURI_EMBEDDING_DIMENSIONS"),
			Destination: &cfg.embeddingDims,
		},
	}
}

func (cfg *config) setupLogger() {
	logging.SetDefault(logging.New(cfg.logLevel, os.Stderr))
}

// newRepository creates a new repository instance
func (cfg *config) newRepository(ctx context.Context) (*repository.Firestore, error) {
	if cfg.project == "" {
		return nil, goerr.New("project is required")
	}
	if cfg.database == "" {
		return nil, goerr.New("database is required")
	}

	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newGemini creates a new Gemini adapter instance
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	project := cfg.geminiProject
	if project == "" {
		project = cfg.project
	}
	if project == "" {
		return nil, goerr.New("gemini-project is required")
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}

	return adapter.NewGemini(ctx, project, cfg.geminiLocation,
		adapter.WithEmbeddingModel(cfg.embeddingModel),
		adapter.WithDimensions(int(cfg.embeddingDims)),
	)
}

// newUseCase wires the full stack for commands that enrich entries
func (cfg *config) newUseCase(ctx context.Context) (*entry.UseCase, error) {
	cfg.setupLogger()

	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, err
	}
	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, err
	}

	return entry.New(repo, gemini), nil
}

// newReadUseCase wires the stack without the embedding service, for commands
// that only read or never touch embeddings
func (cfg *config) newReadUseCase(ctx context.Context) (*entry.UseCase, error) {
	cfg.setupLogger()

	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, err
	}

	return entry.New(repo, nil), nil
}
