package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"melodia/internal/app/albums"
	"melodia/internal/app/artists"
	"melodia/internal/app/genres"
	"melodia/internal/app/playlists"
	"melodia/internal/app/songs"
	"melodia/internal/app/users"
	"melodia/internal/config"
	"melodia/internal/logging"
	"melodia/internal/store"
	"melodia/internal/store/memstore"
)

// Runner holds the dependencies shared by every command and provides one
// method per command action.
type Runner struct {
	config *config.Config
	logger zerolog.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *config.Config
	Logger *zerolog.Logger
	Output io.Writer
}

// NewRunner creates a Runner, filling unset options with defaults.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = &config.Config{Logging: config.LoggingConfig{Level: "info", Format: "json"}}
	}
	if opts.Logger == nil {
		logger := logging.New(logging.Config{Level: opts.Config.Logging.Level, Format: opts.Config.Logging.Format, Output: os.Stderr})
		opts.Logger = &logger
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Runner{config: opts.Config, logger: *opts.Logger, output: opts.Output}
}

// services bundles the managers a command works with.
type services struct {
	repo      store.Repository
	songs     *songs.Manager
	playlists *playlists.Manager
	artists   artists.Service
	albums    albums.Service
	genres    genres.Service
	users     users.Service
	close     func() error
}

func newServices(repo store.Repository) *services {
	userService := users.New(repo)
	return &services{
		repo:      repo,
		songs:     songs.NewManager(repo),
		playlists: playlists.NewManager(repo, userService),
		artists:   artists.New(repo),
		albums:    albums.New(repo),
		genres:    genres.New(repo),
		users:     userService,
		close:     func() error { return nil },
	}
}

// context attaches the runner's logger to ctx.
func (r *Runner) context(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, r.logger)
}

// open connects the services to Postgres, or to a freshly seeded in-memory
// catalog when --memory is set.
func (r *Runner) open(ctx context.Context, cmd *cli.Command) (*services, error) {
	if cmd.Bool("memory") {
		svc := newServices(memstore.New())
		if err := seedDemoCatalog(ctx, svc); err != nil {
			return nil, fmt.Errorf("seed memory catalog: %w", err)
		}
		return svc, nil
	}

	if err := r.config.RequireDatabase(); err != nil {
		return nil, err
	}
	db, err := openDatabase(ctx, r.config.Database)
	if err != nil {
		return nil, err
	}
	svc := newServices(store.New(db))
	svc.close = db.Close
	return svc, nil
}

// with opens the services, runs fn and closes them again.
func (r *Runner) with(ctx context.Context, cmd *cli.Command, fn func(ctx context.Context, svc *services) error) error {
	ctx = r.context(ctx)
	svc, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.close(); err != nil {
			r.logger.Warn().Err(err).Msg("close store")
		}
	}()
	return fn(ctx, svc)
}

func (r *Runner) print(v any) error {
	enc := json.NewEncoder(r.output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func optionalInt64(cmd *cli.Command, name string) *int64 {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.Int64(name)
	return &v
}

func optionalString(cmd *cli.Command, name string) *string {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.String(name)
	return &v
}

// reference builds a song reference from an id flag and a name flag.
func reference(cmd *cli.Command, idFlag, nameFlag string) songs.Ref {
	return songs.Ref{ID: optionalInt64(cmd, idFlag), Name: optionalString(cmd, nameFlag)}
}
