package atlas

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlasos/atlas/internal/trackers/habit"
)

func newHabitCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage habits and daily checks",
	}

	var payload habit.DefinePayload
	define := &cobra.Command{
		Use:   "add <name>",
		Short: "Define a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			payload.Name = args[0]
			state, err := app.habits.Define(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return renderHabit(cmd, opts, state)
		},
	}
	define.Flags().StringVar(&payload.Description, "description", "", "habit description")
	define.Flags().StringVar(&payload.Frequency, "frequency", "", "cadence (daily|weekly)")

	var includeArchived bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List habits with their streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			habits, err := app.habits.List(cmd.Context(), includeArchived)
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), habits)
			}
			now := time.Now()
			rows := make([][]string, 0, len(habits))
			for _, h := range habits {
				rows = append(rows, []string{
					fmt.Sprintf("%d", h.ID), h.Name, h.Frequency,
					fmt.Sprintf("%d", h.Streak(now)), fmt.Sprintf("%d", h.TotalChecks()),
				})
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "FREQUENCY", "STREAK", "CHECKS"}, rows)
		},
	}
	list.Flags().BoolVar(&includeArchived, "all", false, "include archived habits")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one habit",
		Args:  cobra.ExactArgs(1),
		RunE: habitByID(opts, func(cmd *cobra.Command, app *app, id int64) (habit.State, error) {
			return app.habits.Get(cmd.Context(), id)
		}),
	}

	var fields []string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update habit fields",
		Args:  cobra.ExactArgs(1),
		RunE: habitByID(opts, func(cmd *cobra.Command, app *app, id int64) (habit.State, error) {
			parsed, err := parseFields(fields)
			if err != nil {
				return habit.State{}, err
			}
			return app.habits.Update(cmd.Context(), id, parsed)
		}),
	}
	update.Flags().StringArrayVar(&fields, "set", nil, "field update as key=value (repeatable)")

	archive := &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a habit",
		Args:  cobra.ExactArgs(1),
		RunE: habitByID(opts, func(cmd *cobra.Command, app *app, id int64) (habit.State, error) {
			return app.habits.Archive(cmd.Context(), id)
		}),
	}

	var date, note string
	check := &cobra.Command{
		Use:   "check <id>",
		Short: "Check a habit off for a day",
		Args:  cobra.ExactArgs(1),
		RunE: habitByID(opts, func(cmd *cobra.Command, app *app, id int64) (habit.State, error) {
			return app.habits.Check(cmd.Context(), id, date, note)
		}),
	}
	check.Flags().StringVar(&date, "date", "", "day to check (YYYY-MM-DD, default today)")
	check.Flags().StringVar(&note, "note", "", "check note")

	var uncheckDate string
	uncheck := &cobra.Command{
		Use:   "uncheck <id>",
		Short: "Remove a day's check",
		Args:  cobra.ExactArgs(1),
		RunE: habitByID(opts, func(cmd *cobra.Command, app *app, id int64) (habit.State, error) {
			return app.habits.Uncheck(cmd.Context(), id, uncheckDate)
		}),
	}
	uncheck.Flags().StringVar(&uncheckDate, "date", "", "day to uncheck (YYYY-MM-DD, default today)")

	cmd.AddCommand(define, list, show, update, archive, check, uncheck)
	return cmd
}

func habitByID(opts *RootOptions, run func(*cobra.Command, *app, int64) (habit.State, error)) func(*cobra.Command, []string) error {
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
		return renderHabit(cmd, opts, state)
	}
}

func renderHabit(cmd *cobra.Command, opts *RootOptions, state habit.State) error {
	if opts.JSON {
		return printJSON(cmd.OutOrStdout(), state)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "#%d %s (%s) streak %d, %d checks total\n",
		state.ID, state.Name, state.Frequency, state.Streak(time.Now()), state.TotalChecks())
	return nil
}
