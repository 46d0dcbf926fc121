package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abatilo/pick/internal/backlog"
	"github.com/abatilo/pick/internal/config"
	bitserrors "github.com/abatilo/pick/internal/errors"
	"github.com/abatilo/pick/internal/output"
	"github.com/abatilo/pick/internal/plan"
	"github.com/abatilo/pick/internal/selector"
	"github.com/abatilo/pick/internal/storage"
	"github.com/abatilo/pick/internal/task"
)

// app carries what the commands share for one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
	dir    string // searched for .pick.yaml

	jsonOutput bool
	verbose    bool
	formatter  output.Formatter
	logger     *log.Logger
}

func main() {
	a := &app{stdout: os.Stdout, stderr: os.Stderr, now: time.Now, dir: "."}
	if err := newRootCmd(a).Execute(); err != nil {
		a.printError(err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick today's task from a markdown backlog",
		Long: "pick - Select one task from BACKLOG.md and write a dated work plan.\n\n" +
			"Tasks of up to 4 hours are eligible; P1, P2 and P3 are drawn 70/20/10.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.jsonOutput {
				a.formatter = output.NewJSONFormatter()
			} else {
				a.formatter = output.NewHumanFormatter()
			}
			logOut := io.Discard
			if a.verbose {
				logOut = a.stderr
			}
			a.logger = log.New(logOut, "pick: ", log.Ltime)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSelection(cmd)
		},
	}

	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log progress to stderr")
	config.RegisterPathFlags(rootCmd.PersistentFlags())
	config.RegisterRunFlags(rootCmd.Flags())

	rootCmd.AddCommand(
		listCmd(a),
		checkCmd(a),
		showCmd(a),
		plansCmd(a),
	)
	return rootCmd
}

func (a *app) printOutput(s string) {
	io.WriteString(a.stdout, s) //nolint:errcheck // stdout write errors are unrecoverable
}

func (a *app) printError(err error) {
	f := a.formatter
	if f == nil {
		f = output.NewHumanFormatter()
	}
	io.WriteString(a.stdout, f.FormatError(err)) //nolint:errcheck // stdout write errors are unrecoverable
}

// loadBacklog resolves the configuration and parses the backlog it names.
func (a *app) loadBacklog(cmd *cobra.Command) (*config.Config, *backlog.Backlog, error) {
	cfg, err := config.Load(a.dir, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	if cfg.File != "" {
		a.logger.Printf("using config %s", cfg.File)
	}

	text, err := storage.ReadBacklog(cfg.Backlog)
	if err != nil {
		return nil, nil, err
	}

	bl := backlog.Parse(text)
	a.logger.Printf("parsed %s: %d records, %d problems", cfg.Backlog, bl.Len(), len(bl.Problems()))
	for _, tier := range task.Tiers {
		if bl.SectionLines(tier) == 0 {
			a.logger.Printf("no %s section", tier)
		}
	}
	return cfg, bl, nil
}

// runSelection implements 'pick'.
func (a *app) runSelection(cmd *cobra.Command) error {
	cfg, bl, err := a.loadBacklog(cmd)
	if err != nil {
		return err
	}

	tmpl, err := plan.LoadTemplate(cfg.Template)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if !cfg.SeedSet {
		seed = selector.RandomSeed()
	}
	sel := selector.Select(bl.Tasks(), cfg.Selection, selector.NewRand(seed))
	a.logger.Printf("seed %d: %d candidates (fallback=%v), draw %.4f",
		seed, len(sel.Candidates), sel.Fallback, sel.Draw)

	now := a.now()
	run := &output.Run{
		Date:     now.Format(plan.DateLayout),
		Tasks:    bl.Tasks(),
		Problems: bl.Problems(),
		Fallback: sel.Fallback,
		Seed:     seed,
		DryRun:   cfg.DryRun,
	}

	if sel.Found() {
		run.Selected = sel.Task

		content, err := plan.New(sel.Task, now, plan.NewMeta(seed)).Render(tmpl)
		if err != nil {
			return fmt.Errorf("rendering work plan: %w", err)
		}

		store := storage.NewStore(cfg.OutDir)
		a.logger.Printf("plans in %s", store.BasePath())
		run.PlanPath = store.PlanPath(now)
		if cfg.DryRun {
			run.Plan = content
		} else if _, err := store.SavePlan(now, content); err != nil {
			return err
		}
		run.StatusCmd = plan.StatusCommand(cfg.Backlog, sel.Task.ID)
	}

	a.printOutput(a.formatter.FormatRun(run))
	return nil
}

// listCmd implements 'pick list'.
func listCmd(a *app) *cobra.Command {
	var tierFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks available for selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var tier task.Tier
			if tierFlag != "" {
				t, ok := task.ParseTier(tierFlag)
				if !ok {
					return bitserrors.InvalidTierError{Value: tierFlag}
				}
				tier = t
			}

			_, bl, err := a.loadBacklog(cmd)
			if err != nil {
				return err
			}

			tasks := bl.Tasks()
			if tier != "" {
				tasks = bl.Tier(tier)
			}
			a.printOutput(a.formatter.FormatTaskList(tasks))
			return nil
		},
	}
	cmd.Flags().StringVarP(&tierFlag, "tier", "t", "", "Only list one tier (P1, P2, P3)")
	return cmd
}

// checkCmd implements 'pick check'.
func checkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report malformed backlog records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, bl, err := a.loadBacklog(cmd)
			if err != nil {
				return err
			}

			problems := bl.Problems()
			if len(problems) == 0 {
				a.printOutput(a.formatter.FormatMessage("No problems found."))
				return nil
			}
			a.printOutput(a.formatter.FormatProblems(problems))
			return bitserrors.ProblemsFoundError{Count: len(problems)}
		},
	}
}

// showCmd implements 'pick show'.
func showCmd(a *app) *cobra.Command {
	var dateFlag string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the work plan for a date (default today)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			date := a.now()
			if dateFlag != "" {
				d, err := time.Parse(plan.DateLayout, dateFlag)
				if err != nil {
					return bitserrors.InvalidDateError{Value: dateFlag}
				}
				date = d
			}

			cfg, err := config.Load(a.dir, cmd.Flags())
			if err != nil {
				return err
			}

			p, err := storage.NewStore(cfg.OutDir).LoadPlan(date)
			if err != nil {
				return err
			}
			a.printOutput(a.formatter.FormatPlan(p))
			return nil
		},
	}
	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Plan date (YYYY-MM-DD)")
	return cmd
}

// plansCmd implements 'pick plans'.
func plansCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List the dates that have a work plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.dir, cmd.Flags())
			if err != nil {
				return err
			}

			dates, err := storage.NewStore(cfg.OutDir).PlanDates()
			if err != nil {
				return err
			}
			if len(dates) == 0 {
				a.printOutput(a.formatter.FormatMessage("No work plans found."))
				return nil
			}
			out := make([]string, len(dates))
			for i, d := range dates {
				out[i] = d.Format(plan.DateLayout)
			}
			a.printOutput(a.formatter.FormatPlanDates(out))
			return nil
		},
	}
}
