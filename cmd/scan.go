package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/getlrc/internal/library"
	"github.com/desertthunder/getlrc/internal/services"
	"github.com/desertthunder/getlrc/internal/session"
	"github.com/desertthunder/getlrc/internal/shared"
	"github.com/desertthunder/getlrc/internal/tasks"
	"github.com/desertthunder/getlrc/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// Default runs a scan when the only argument is a directory.
func (r *Runner) Default(ctx context.Context, cmd *cli.Command) error {
	switch cmd.Args().Len() {
	case 0:
		return fmt.Errorf("%w: music directory (usage: %s <music-dir>, or %s --help)", shared.ErrMissingArgument, shared.AppName, shared.AppName)
	case 1:
		return r.scan(ctx, cmd.Args().First(), cmd.Bool("paused"))
	default:
		return fmt.Errorf("%w: expected one directory, got %d arguments", shared.ErrInvalidArgument, cmd.Args().Len())
	}
}

// Scan runs the lyrics pipeline over the directory argument.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.StringArg("dir")
	if dir == "" {
		return fmt.Errorf("%w: music directory", shared.ErrMissingArgument)
	}
	return r.scan(ctx, dir, cmd.Bool("paused"))
}

// scan checks preconditions, then runs the orchestrator and a display side by side until the run ends.
//
// Preconditions (target directory, data directory, cache database) are the only errors returned; they are
// checked before any session file is read.
func (r *Runner) scan(ctx context.Context, dir string, paused bool) error {
	root, err := shared.EnsureTargetDir(dir)
	if err != nil {
		return err
	}

	cache, paths, err := r.openCache(ctx)
	if err != nil {
		return err
	}
	defer cache.Close()

	logger := r.logger
	if r.tui {
		fileLogger, f, err := shared.NewFileLogger(paths.LogFile)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		defer f.Close()
		shared.SetLogLevel(fileLogger, r.logger.GetLevel())
		logger = fileLogger
	}

	bus := tasks.NewEventBus(tasks.DefaultIntentBuffer)
	orchestrator := tasks.NewOrchestrator(tasks.Dependencies{
		Scanner:  library.NewDirScanner(logger),
		Metadata: library.NewTagReader(),
		Cache:    cache,
		Lyrics:   services.NewLRCLibClient(r.config.Lyrics, r.httpClient, logger),
		Sidecars: library.NewSidecarWriter(),
		Store:    session.NewStore(paths.Session, logger),
		Limiter:  tasks.NewRateLimiter(r.config.Lyrics.RateLimit),
		Bus:      bus,
	}, tasks.Options{
		CheckpointEvery: r.config.Pipeline.CheckpointEvery,
		StartPaused:     paused || r.config.Pipeline.ResumePaused,
	}, logger)

	logger.Info("starting scan", "root", root, "data", paths.DataDir, "rate", r.config.Lyrics.RateLimit)

	var result *tasks.RunResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := orchestrator.Run(gctx, root)
		result = res
		return err
	})
	g.Go(func() error {
		if !r.tui {
			ui.LogUpdates(bus, logger)
			return nil
		}
		return r.display(bus, root)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return r.summarize(result, paths)
}

// display runs the interactive view. Whatever happens to the program, the bus is drained so the orchestrator
// never stalls on a full queue.
func (r *Runner) display(bus *tasks.EventBus, root string) error {
	defer func() {
		for range bus.Updates() {
		}
	}()

	p := tea.NewProgram(ui.NewModel(bus, root), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		bus.Send(tasks.IntentQuit)
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func (r *Runner) summarize(res *tasks.RunResult, paths shared.Paths) error {
	if res == nil {
		return nil
	}

	c := res.Counts
	r.writePlainHeader(fmt.Sprintf("getlrc: %s", res.State))
	r.writePlain("Downloaded: %d\nCached:     %d\nExisting:   %d\nFailed:     %d\n", c.Downloaded, c.Cached, c.Existing, c.Failed)

	switch res.State {
	case tasks.StateCancelled:
		if res.Pending > 0 {
			r.writePlainln("%d files remaining. Run the same command again to resume (session: %s)", res.Pending, paths.Session)
		}
	case tasks.StateCompleted:
		if r.tui {
			r.writePlain("Log: %s\n", paths.LogFile)
		}
	}
	r.logger.Debug("scan finished", "state", res.State, "processed", c.Processed(), "pending", res.Pending)
	return nil
}
