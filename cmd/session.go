package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/getlrc/internal/formatter"
	"github.com/urfave/cli/v3"
)

// SessionShow renders the saved session, if any.
func (r *Runner) SessionShow(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	store, err := r.sessionStore()
	if err != nil {
		return err
	}

	sess, err := store.Peek()
	if err != nil {
		return err
	}
	if sess == nil {
		r.writePlain("No saved session at %s\n", store.Path())
		return nil
	}

	if out := cmd.String("output"); out != "" {
		if err := formatter.WriteExport(sess, format, out); err != nil {
			return err
		}
		r.logger.Info("session exported", "format", format, "path", out)
		r.writePlain("✓ Session written to %s\n", out)
		return nil
	}

	data, err := formatter.Render(sess, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// SessionClear deletes the saved session regardless of which root it belongs to.
func (r *Runner) SessionClear(ctx context.Context, cmd *cli.Command) error {
	store, err := r.sessionStore()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	r.logger.Info("session cleared", "path", store.Path())
	r.writePlain("✓ Session cleared\n")
	return nil
}
