package atlas

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atlasos/atlas/internal/trackers/note"
)

func newNoteCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage notes",
	}

	var payload note.CreatePayload
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			payload.Title = args[0]
			state, err := app.notes.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return renderNote(cmd, opts, state)
		},
	}
	add.Flags().StringVar(&payload.Content, "content", "", "note body")
	add.Flags().StringSliceVar(&payload.Tags, "tag", nil, "tags")

	var (
		query           string
		tag             string
		includeArchived bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List, search or filter notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			var notes []note.State
			switch {
			case tag != "":
				notes, err = app.notes.ByTag(cmd.Context(), tag)
			case query != "":
				notes, err = app.notes.Search(cmd.Context(), query)
			default:
				notes, err = app.notes.List(cmd.Context(), includeArchived)
			}
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), notes)
			}
			rows := make([][]string, 0, len(notes))
			for _, n := range notes {
				rows = append(rows, []string{
					fmt.Sprintf("%d", n.ID), n.Title, strings.Join(n.Tags, ","),
				})
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "TAGS"}, rows)
		},
	}
	list.Flags().StringVar(&query, "search", "", "full-text search over title and content")
	list.Flags().StringVar(&tag, "tag", "", "filter by tag")
	list.Flags().BoolVar(&includeArchived, "all", false, "include archived notes")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one note",
		Args:  cobra.ExactArgs(1),
		RunE: noteByID(opts, func(cmd *cobra.Command, app *app, id int64) (note.State, error) {
			return app.notes.Get(cmd.Context(), id)
		}),
	}

	var fields []string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update note fields",
		Args:  cobra.ExactArgs(1),
		RunE: noteByID(opts, func(cmd *cobra.Command, app *app, id int64) (note.State, error) {
			parsed, err := parseFields(fields)
			if err != nil {
				return note.State{}, err
			}
			return app.notes.Update(cmd.Context(), id, parsed)
		}),
	}
	update.Flags().StringArrayVar(&fields, "set", nil, "field update as key=value (repeatable)")

	archive := &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a note",
		Args:  cobra.ExactArgs(1),
		RunE: noteByID(opts, func(cmd *cobra.Command, app *app, id int64) (note.State, error) {
			return app.notes.Archive(cmd.Context(), id)
		}),
	}

	var tags []string
	setTags := &cobra.Command{
		Use:   "tag <id>",
		Short: "Replace a note's tag set",
		Args:  cobra.ExactArgs(1),
		RunE: noteByID(opts, func(cmd *cobra.Command, app *app, id int64) (note.State, error) {
			return app.notes.Tag(cmd.Context(), id, tags)
		}),
	}
	setTags.Flags().StringSliceVar(&tags, "tag", nil, "full replacement tag set")

	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "List every tag in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			all, err := app.notes.Tags(cmd.Context())
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), all)
			}
			for _, t := range all {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}

	cmd.AddCommand(add, list, show, update, archive, setTags, tagsCmd)
	return cmd
}

func noteByID(opts *RootOptions, run func(*cobra.Command, *app, int64) (note.State, error)) func(*cobra.Command, []string) error {
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
		return renderNote(cmd, opts, state)
	}
}

func renderNote(cmd *cobra.Command, opts *RootOptions, state note.State) error {
	if opts.JSON {
		return printJSON(cmd.OutOrStdout(), state)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "#%d %s\n", state.ID, state.Title)
	if len(state.Tags) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "  tags: %s\n", strings.Join(state.Tags, ", "))
	}
	if state.Content != "" {
		fmt.Fprintln(cmd.OutOrStdout(), state.Content)
	}
	return nil
}
