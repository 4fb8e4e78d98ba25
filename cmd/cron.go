package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/crystaldolphin/shellchat/internal/agent"
	"github.com/crystaldolphin/shellchat/internal/cron"
	"github.com/crystaldolphin/shellchat/internal/dependency"
	"github.com/crystaldolphin/shellchat/internal/ui"
)

var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Manage scheduled prompts",
}

func init() {
	cronCmd.AddCommand(cronListCmd)
	cronCmd.AddCommand(cronAddCmd)
	cronCmd.AddCommand(cronRemoveCmd)
	cronCmd.AddCommand(cronEnableCmd)
	cronCmd.AddCommand(cronRunCmd)
	cronCmd.AddCommand(cronStartCmd)
}

// ---- list ------------------------------------------------------------------

var cronListAll bool

var cronListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled prompts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, js, err := openJobStore(cmd, "")
		if err != nil {
			return err
		}
		defer c.Close()

		jobs, err := js.Load()
		if err != nil {
			return err
		}

		now := time.Now()
		shown := 0
		for _, j := range jobs {
			if !j.Enabled && !cronListAll {
				continue
			}
			if shown == 0 {
				fmt.Printf("%-10s %-20s %-25s %-10s %-17s %s\n", "ID", "Name", "Schedule", "Status", "Next Run", "Last")
				fmt.Println(strings.Repeat("-", 96))
			}
			shown++

			status := "enabled"
			nextRun := ""
			if j.Enabled {
				if t := j.NextRun(now); !t.IsZero() {
					nextRun = t.Local().Format("2006-01-02 15:04")
				}
			} else {
				status = "disabled"
			}
			fmt.Printf("%-10s %-20s %-25s %-10s %-17s %s\n",
				j.ID, truncStr(j.Name, 19), truncStr(j.Schedule.String(), 24), status, nextRun, j.State.LastStatus)
		}
		if shown == 0 {
			fmt.Println("No scheduled prompts.")
		}
		return nil
	},
}

func init() {
	cronListCmd.Flags().BoolVarP(&cronListAll, "all", "a", false, "Include disabled jobs")
}

// ---- add -------------------------------------------------------------------

var (
	cronAddName      string
	cronAddMsg       string
	cronAddEvery     int
	cronAddCron      string
	cronAddTZ        string
	cronAddWebSearch bool
)

var cronAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a scheduled prompt",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cronAddTZ != "" && cronAddCron == "" {
			return fmt.Errorf("--tz can only be used with --cron")
		}

		var sched cron.Schedule
		switch {
		case cronAddEvery > 0:
			sched = cron.Schedule{Kind: cron.KindEvery, EveryMs: int64(cronAddEvery) * 1000}
		case cronAddCron != "":
			sched = cron.Schedule{Kind: cron.KindCron, Expr: cronAddCron, TZ: cronAddTZ}
		default:
			return fmt.Errorf("must specify --every or --cron")
		}

		c, js, err := openJobStore(cmd, "")
		if err != nil {
			return err
		}
		defer c.Close()

		job, err := js.Add(cronAddName, sched, cron.Payload{
			Message:   cronAddMsg,
			WebSearch: cronAddWebSearch,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Added job '%s' (%s)\n", job.Name, job.ID)
		return nil
	},
}

func init() {
	cronAddCmd.Flags().StringVarP(&cronAddName, "name", "n", "", "Job name (required)")
	cronAddCmd.Flags().StringVarP(&cronAddMsg, "message", "m", "", "Prompt to send (required)")
	cronAddCmd.Flags().IntVarP(&cronAddEvery, "every", "e", 0, "Run every N seconds")
	cronAddCmd.Flags().StringVarP(&cronAddCron, "cron", "c", "", "Cron expression (e.g. '0 9 * * *')")
	cronAddCmd.Flags().StringVar(&cronAddTZ, "tz", "", "IANA timezone for --cron")
	cronAddCmd.Flags().BoolVar(&cronAddWebSearch, "web-search", false, "Allow web search in the session")

	_ = cronAddCmd.MarkFlagRequired("name")
	_ = cronAddCmd.MarkFlagRequired("message")
}

// ---- remove / enable -------------------------------------------------------

var cronRemoveCmd = &cobra.Command{
	Use:   "remove <job-id>",
	Short: "Remove a scheduled prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, js, err := openJobStore(cmd, "")
		if err != nil {
			return err
		}
		defer c.Close()

		ok, err := js.Remove(args[0])
		if err != nil {
			return err
		}
		if ok {
			fmt.Printf("✓ Removed job %s\n", args[0])
		} else {
			fmt.Printf("Job %s not found\n", args[0])
		}
		return nil
	},
}

var cronEnableDisable bool

var cronEnableCmd = &cobra.Command{
	Use:   "enable <job-id>",
	Short: "Enable (or disable) a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, js, err := openJobStore(cmd, "")
		if err != nil {
			return err
		}
		defer c.Close()

		ok, err := js.SetEnabled(args[0], !cronEnableDisable)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("Job %s not found\n", args[0])
			return nil
		}
		action := "enabled"
		if cronEnableDisable {
			action = "disabled"
		}
		fmt.Printf("✓ Job %s %s\n", args[0], action)
		return nil
	},
}

func init() {
	cronEnableCmd.Flags().BoolVar(&cronEnableDisable, "disable", false, "Disable instead of enable")
}

// ---- run / start -----------------------------------------------------------

var (
	cronRunForce    bool
	cronRunProvider string
)

var cronRunCmd = &cobra.Command{
	Use:   "run <job-id>",
	Short: "Run a job once now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, js, err := openJobStore(cmd, cronRunProvider)
		if err != nil {
			return err
		}
		defer c.Close()

		jobs, err := js.Load()
		if err != nil {
			return err
		}
		var job *cron.Job
		for i := range jobs {
			if jobs[i].ID == args[0] {
				job = &jobs[i]
			}
		}
		if job == nil {
			return fmt.Errorf("job %s not found", args[0])
		}
		if !job.Enabled && !cronRunForce {
			return fmt.Errorf("job %s is disabled (use --force)", args[0])
		}

		sched, err := newScheduler(c)
		if err != nil {
			return err
		}
		state := sched.Execute(context.Background(), *job)
		if state.LastStatus != "ok" {
			return fmt.Errorf("job %s failed: %s", job.ID, state.LastError)
		}
		fmt.Printf("✓ Job executed (session %s)\n", state.LastSessionID)
		return nil
	},
}

var cronStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Run enabled jobs on their schedules until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := dependency.New(cfg, dependency.Options{Provider: cronRunProvider, Out: cmd.OutOrStdout()})
		if err != nil {
			return err
		}
		defer c.Close()

		sched, err := newScheduler(c)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return sched.Start(gctx, func(n int) {
				fmt.Printf("✓ Scheduler started with %d job(s). Press Ctrl+C to stop.\n", n)
			})
		})
		g.Go(func() error {
			<-gctx.Done()
			fmt.Println("\nStopping scheduler...")
			return nil
		})
		return g.Wait()
	},
}

func init() {
	cronRunCmd.Flags().BoolVarP(&cronRunForce, "force", "f", false, "Run even if disabled")
	for _, c := range []*cobra.Command{cronRunCmd, cronStartCmd} {
		c.Flags().StringVarP(&cronRunProvider, "provider", "p", "", "Provider: openai, sambanova or gemini")
	}
}

// ---- helpers ---------------------------------------------------------------

// openJobStore builds a container and resolves its job store. Nothing
// else is constructed until asked for, so no API key is needed here.
func openJobStore(cmd *cobra.Command, provider string) (*dependency.Container, *cron.JobStore, error) {
	c, err := dependency.New(cfg, dependency.Options{Provider: provider, Out: cmd.OutOrStdout()})
	if err != nil {
		return nil, nil, err
	}
	js, err := c.JobStore()
	if err != nil {
		c.Close()
		return nil, nil, err
	}
	return c, js, nil
}

// newScheduler builds a Scheduler whose jobs each run as one turn of a
// fresh chat session.
func newScheduler(c *dependency.Container) (*cron.Scheduler, error) {
	factory, err := c.EngineFactory()
	if err != nil {
		return nil, err
	}
	jobs, err := c.JobStore()
	if err != nil {
		return nil, err
	}
	p, err := c.Printer()
	if err != nil {
		return nil, err
	}
	return cron.NewScheduler(jobs, jobRunner(factory, p)), nil
}

func jobRunner(factory *agent.EngineFactory, p *ui.Printer) cron.RunFunc {
	return func(ctx context.Context, job cron.Job) (string, error) {
		engine, err := factory.NewEngine(ctx, agent.SessionOptions{WebSearch: job.Payload.WebSearch})
		if err != nil {
			return "", err
		}
		p.System(fmt.Sprintf("Running job '%s' in session %s", job.Name, engine.SessionID()))

		res, err := engine.Turn(ctx, job.Payload.Message)
		if err != nil {
			return engine.SessionID(), err
		}
		switch res.Status {
		case agent.TurnCompleted:
			p.Assistant(res.Reply)
		case agent.TurnInvalid:
			return engine.SessionID(), errors.New("model replied with an invalid tool directive")
		}
		return engine.SessionID(), nil
	}
}

func truncStr(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
