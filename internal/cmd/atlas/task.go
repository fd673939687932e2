package atlas

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlasos/atlas/internal/trackers/task"
)

func newTaskCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	var payload task.CreatePayload
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			payload.Title = args[0]
			state, err := app.tasks.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return renderTask(cmd, opts, state)
		},
	}
	add.Flags().StringVar(&payload.Description, "description", "", "task description")
	add.Flags().StringVar(&payload.Priority, "priority", "", "priority (low|medium|high|urgent)")
	add.Flags().StringVar(&payload.DueDate, "due", "", "due date (YYYY-MM-DD)")
	add.Flags().StringVar(&payload.ScheduledDate, "scheduled", "", "scheduled date (YYYY-MM-DD)")
	add.Flags().StringSliceVar(&payload.Tags, "tag", nil, "tags")
	add.Flags().Int64Var(&payload.GoalID, "goal", 0, "linked goal id")
	add.Flags().IntVar(&payload.EstimatedMinutes, "estimate", 0, "estimated minutes")

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			tasks, err := app.tasks.List(cmd.Context(), task.Status(status))
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), tasks)
			}
			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				rows = append(rows, []string{
					fmt.Sprintf("%d", t.ID), t.Title, t.Priority, string(t.Status), t.DueDate,
				})
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "PRIORITY", "STATUS", "DUE"}, rows)
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status (open|completed|cancelled)")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: taskByID(opts, func(cmd *cobra.Command, app *app, id int64) (task.State, error) {
			return app.tasks.Get(cmd.Context(), id)
		}),
	}

	var fields []string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: taskByID(opts, func(cmd *cobra.Command, app *app, id int64) (task.State, error) {
			parsed, err := parseFields(fields)
			if err != nil {
				return task.State{}, err
			}
			return app.tasks.Update(cmd.Context(), id, parsed)
		}),
	}
	update.Flags().StringArrayVar(&fields, "set", nil, "field update as key=value (repeatable)")

	complete := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: taskByID(opts, func(cmd *cobra.Command, app *app, id int64) (task.State, error) {
			return app.tasks.Complete(cmd.Context(), id)
		}),
	}

	cancel := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a task",
		Args:  cobra.ExactArgs(1),
		RunE: taskByID(opts, func(cmd *cobra.Command, app *app, id int64) (task.State, error) {
			return app.tasks.Cancel(cmd.Context(), id)
		}),
	}

	var minutes int
	var note string
	logTime := &cobra.Command{
		Use:   "log <id>",
		Short: "Log time against a task",
		Args:  cobra.ExactArgs(1),
		RunE: taskByID(opts, func(cmd *cobra.Command, app *app, id int64) (task.State, error) {
			return app.tasks.LogTime(cmd.Context(), id, minutes, note)
		}),
	}
	logTime.Flags().IntVar(&minutes, "minutes", 0, "minutes spent")
	logTime.Flags().StringVar(&note, "note", "", "what the time went to")

	cmd.AddCommand(add, list, show, update, complete, cancel, logTime)
	return cmd
}

// taskByID wraps the open-store/parse-id/render plumbing shared by every
// single-task subcommand.
func taskByID(opts *RootOptions, run func(*cobra.Command, *app, int64) (task.State, error)) func(*cobra.Command, []string) error {
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
		return renderTask(cmd, opts, state)
	}
}

func renderTask(cmd *cobra.Command, opts *RootOptions, state task.State) error {
	if opts.JSON {
		return printJSON(cmd.OutOrStdout(), state)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "#%d %s [%s] %s\n", state.ID, state.Title, state.Priority, state.Status)
	if state.ActualMinutes > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "  time logged: %dm\n", state.ActualMinutes)
	}
	return nil
}
