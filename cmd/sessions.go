package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/shellchat/internal/dependency"
	"github.com/crystaldolphin/shellchat/internal/export"
	"github.com/crystaldolphin/shellchat/internal/store"
	"github.com/crystaldolphin/shellchat/internal/ui"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List, view and export stored sessions",
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsViewCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)
}

// ---- list ------------------------------------------------------------------

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List previous sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runWithStore(cmd, func(ctx context.Context, s store.Store, p *ui.Printer) error {
			return listSessions(ctx, s, p)
		})
	},
}

// ---- view ------------------------------------------------------------------

var sessionsViewCmd = &cobra.Command{
	Use:   "view <session-id>",
	Short: "Print a session's history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithStore(cmd, func(ctx context.Context, s store.Store, p *ui.Printer) error {
			return viewSession(ctx, s, p, args[0])
		})
	},
}

// ---- export ----------------------------------------------------------------

var (
	sessionsExportFormat string
	sessionsExportDir    string
)

var sessionsExportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Write a session's history to session_<id>.<format>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := exportOptions{format: sessionsExportFormat, dir: sessionsExportDir}
		return runWithStore(cmd, func(ctx context.Context, s store.Store, p *ui.Printer) error {
			return exportSession(ctx, s, p, args[0], opts)
		})
	},
}

func init() {
	sessionsExportCmd.Flags().StringVarP(&sessionsExportFormat, "format", "f", "txt", "Export format: txt, json or yaml")
	sessionsExportCmd.Flags().StringVarP(&sessionsExportDir, "dir", "d", ".", "Directory to write the export into")
}

// ---- helpers ---------------------------------------------------------------

type exportOptions struct {
	format string
	dir    string
}

// runWithStore opens only the session store; no provider is configured.
func runWithStore(cmd *cobra.Command, fn func(context.Context, store.Store, *ui.Printer) error) error {
	c, err := dependency.New(cfg, dependency.Options{Out: cmd.OutOrStdout()})
	if err != nil {
		return err
	}
	defer c.Close()

	p, err := c.Printer()
	if err != nil {
		return err
	}
	return withStore(c, func(s store.Store) error {
		return fn(context.Background(), s, p)
	})
}

func withStore(c *dependency.Container, fn func(store.Store) error) error {
	s, err := c.Store()
	if err != nil {
		return err
	}
	return fn(s)
}

func listSessions(ctx context.Context, s store.Store, p *ui.Printer) error {
	sessions, err := s.ListSessions(ctx)
	if err != nil {
		return err
	}
	p.Title("Previous Sessions:")
	for i, rec := range sessions {
		p.Line("%d: %s (%s, %d messages)", i+1, rec.ID, rec.CreatedAt.Local().Format("2006-01-02 15:04:05"), rec.MessageCount)
	}
	if len(sessions) == 0 {
		p.Muted("No sessions yet.")
	}
	return nil
}

func viewSession(ctx context.Context, s store.Store, p *ui.Printer, id string) error {
	if _, err := s.GetSession(ctx, id); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return fmt.Errorf("session %q not found", id)
		}
		return err
	}
	history, err := s.LoadHistory(ctx, id)
	if err != nil {
		return err
	}

	p.Line("")
	p.Title("Session History:")
	p.Line("")
	for _, m := range history {
		p.Message(m)
	}
	return nil
}

func exportSession(ctx context.Context, s store.Store, p *ui.Printer, id string, opts exportOptions) error {
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	rec, err := s.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return fmt.Errorf("session %q not found", id)
		}
		return err
	}
	messages, err := s.LoadMessages(ctx, id)
	if err != nil {
		return err
	}

	path, err := export.ToFile(opts.dir, format, export.Transcript{Session: rec, Messages: messages})
	if err != nil {
		return err
	}
	p.Line("Session exported to %s", path)
	return nil
}
