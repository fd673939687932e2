package atlas

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlasos/atlas/internal/trackers/goal"
)

func newGoalCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals, key results and milestones",
	}

	var definePayload goal.DefinePayload
	define := &cobra.Command{
		Use:   "define <title>",
		Short: "Define a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			definePayload.Title = args[0]
			state, err := app.goals.Define(cmd.Context(), definePayload)
			if err != nil {
				return err
			}
			return renderGoal(cmd, opts, state)
		},
	}
	define.Flags().StringVar(&definePayload.Description, "description", "", "goal description")
	define.Flags().StringVar(&definePayload.Area, "area", "", "life area")

	list := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			goals, err := app.goals.List(cmd.Context())
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), goals)
			}
			rows := make([][]string, 0, len(goals))
			for _, g := range goals {
				rows = append(rows, []string{
					fmt.Sprintf("%d", g.ID), g.Title, g.Area, g.TargetDate, fmt.Sprintf("%.1f", g.CurrentValue),
				})
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "AREA", "TARGET", "CURRENT"}, rows)
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one goal",
		Args:  cobra.ExactArgs(1),
		RunE: goalByID(opts, func(cmd *cobra.Command, app *app, id int64) (goal.State, error) {
			return app.goals.Get(cmd.Context(), id)
		}),
	}

	var targetPayload goal.TargetPayload
	target := &cobra.Command{
		Use:   "target <id>",
		Short: "Set a goal's measurable target",
		Args:  cobra.ExactArgs(1),
		RunE: goalByID(opts, func(cmd *cobra.Command, app *app, id int64) (goal.State, error) {
			return app.goals.SetTarget(cmd.Context(), id, targetPayload)
		}),
	}
	target.Flags().StringVar(&targetPayload.TargetDate, "date", "", "target date (YYYY-MM-DD)")
	target.Flags().Float64Var(&targetPayload.TargetValue, "value", 0, "target value")

	var fields []string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update goal fields",
		Args:  cobra.ExactArgs(1),
		RunE: goalByID(opts, func(cmd *cobra.Command, app *app, id int64) (goal.State, error) {
			parsed, err := parseFields(fields)
			if err != nil {
				return goal.State{}, err
			}
			return app.goals.Update(cmd.Context(), id, parsed)
		}),
	}
	update.Flags().StringArrayVar(&fields, "set", nil, "field update as key=value (repeatable)")

	var area string
	setArea := &cobra.Command{
		Use:   "area <id>",
		Short: "Assign a goal to a life area",
		Args:  cobra.ExactArgs(1),
		RunE: goalByID(opts, func(cmd *cobra.Command, app *app, id int64) (goal.State, error) {
			return app.goals.SetArea(cmd.Context(), id, area)
		}),
	}
	setArea.Flags().StringVar(&area, "name", "", "life area name")

	var parentID int64
	setParent := &cobra.Command{
		Use:   "parent <id>",
		Short: "Link a goal under a parent goal",
		Args:  cobra.ExactArgs(1),
		RunE: goalByID(opts, func(cmd *cobra.Command, app *app, id int64) (goal.State, error) {
			return app.goals.SetParent(cmd.Context(), id, parentID)
		}),
	}
	setParent.Flags().Int64Var(&parentID, "id", 0, "parent goal id")

	archive := &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a goal",
		Args:  cobra.ExactArgs(1),
		RunE: goalByID(opts, func(cmd *cobra.Command, app *app, id int64) (goal.State, error) {
			return app.goals.Archive(cmd.Context(), id)
		}),
	}

	var progressValue float64
	var progressNote string
	progress := &cobra.Command{
		Use:   "progress <id>",
		Short: "Log a progress measurement",
		Args:  cobra.ExactArgs(1),
		RunE: goalByID(opts, func(cmd *cobra.Command, app *app, id int64) (goal.State, error) {
			return app.goals.LogProgress(cmd.Context(), id, progressValue, progressNote)
		}),
	}
	progress.Flags().Float64Var(&progressValue, "value", 0, "measured value")
	progress.Flags().StringVar(&progressNote, "note", "", "measurement note")

	cmd.AddCommand(define, list, show, target, update, setArea, setParent, archive, progress)
	cmd.AddCommand(newKeyResultCommand(opts), newMilestoneCommand(opts))
	return cmd
}

func newKeyResultCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kr",
		Short: "Manage key results under a goal",
	}

	var title string
	var targetValue float64
	add := &cobra.Command{
		Use:   "add <goal-id>",
		Short: "Add a key result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goalID, err := parseEntityID(args[0])
			if err != nil {
				return err
			}
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			kr, err := app.goals.AddKeyResult(cmd.Context(), goalID, title, targetValue)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), kr)
		},
	}
	add.Flags().StringVar(&title, "title", "", "key result title")
	add.Flags().Float64Var(&targetValue, "target", 0, "target value")

	var currentValue float64
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Move a key result's current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntityID(args[0])
			if err != nil {
				return err
			}
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			kr, err := app.goals.UpdateKeyResult(cmd.Context(), id, currentValue)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), kr)
		},
	}
	update.Flags().Float64Var(&currentValue, "value", 0, "new current value")

	list := &cobra.Command{
		Use:   "list <goal-id>",
		Short: "List a goal's key results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goalID, err := parseEntityID(args[0])
			if err != nil {
				return err
			}
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			krs, err := app.goals.KeyResults(cmd.Context(), goalID)
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), krs)
			}
			rows := make([][]string, 0, len(krs))
			for _, kr := range krs {
				rows = append(rows, []string{
					fmt.Sprintf("%d", kr.ID), kr.Title,
					fmt.Sprintf("%.1f", kr.CurrentValue), fmt.Sprintf("%.1f", kr.TargetValue),
				})
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "CURRENT", "TARGET"}, rows)
		},
	}

	cmd.AddCommand(add, update, list)
	return cmd
}

func newMilestoneCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Manage milestones under a goal",
	}

	var title, dueDate string
	add := &cobra.Command{
		Use:   "add <goal-id>",
		Short: "Add a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goalID, err := parseEntityID(args[0])
			if err != nil {
				return err
			}
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			m, err := app.goals.AddMilestone(cmd.Context(), goalID, title, dueDate)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), m)
		},
	}
	add.Flags().StringVar(&title, "title", "", "milestone title")
	add.Flags().StringVar(&dueDate, "due", "", "due date (YYYY-MM-DD)")

	complete := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a milestone done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntityID(args[0])
			if err != nil {
				return err
			}
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			m, err := app.goals.CompleteMilestone(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), m)
		},
	}

	list := &cobra.Command{
		Use:   "list <goal-id>",
		Short: "List a goal's milestones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goalID, err := parseEntityID(args[0])
			if err != nil {
				return err
			}
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			ms, err := app.goals.Milestones(cmd.Context(), goalID)
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), ms)
			}
			rows := make([][]string, 0, len(ms))
			for _, m := range ms {
				done := ""
				if m.Completed {
					done = "done"
				}
				rows = append(rows, []string{fmt.Sprintf("%d", m.ID), m.Title, m.DueDate, done})
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "DUE", "STATUS"}, rows)
		},
	}

	cmd.AddCommand(add, complete, list)
	return cmd
}

func goalByID(opts *RootOptions, run func(*cobra.Command, *app, int64) (goal.State, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseEntityID(args[0])
		if err != nil {
			return err
		}
		app, err := openApp(opts)
		if err != nil {
			return err
		}
		defer app.Close()

		state, err := run(cmd, app, id)
		if err != nil {
			return err
		}
		return renderGoal(cmd, opts, state)
	}
}

func renderGoal(cmd *cobra.Command, opts *RootOptions, state goal.State) error {
	if opts.JSON {
		return printJSON(cmd.OutOrStdout(), state)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "#%d %s", state.ID, state.Title)
	if state.Area != "" {
		fmt.Fprintf(cmd.OutOrStdout(), " (%s)", state.Area)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	if state.TargetValue != 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "  progress: %.1f / %.1f\n", state.CurrentValue, state.TargetValue)
	}
	return nil
}
