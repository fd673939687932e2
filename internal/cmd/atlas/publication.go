package atlas

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlasos/atlas/internal/trackers/publication"
)

func newPublicationCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pub",
		Short: "Track publications through submission and review",
	}

	var payload publication.CreatePayload
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a publication draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			payload.Title = args[0]
			state, err := app.publications.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return renderPublication(cmd, opts, state)
		},
	}
	add.Flags().StringVar(&payload.Venue, "venue", "", "target venue")
	add.Flags().StringSliceVar(&payload.Authors, "author", nil, "authors")
	add.Flags().StringVar(&payload.Notes, "notes", "", "free-form notes")

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List publications",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			pubs, err := app.publications.List(cmd.Context(), publication.Status(status))
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), pubs)
			}
			rows := make([][]string, 0, len(pubs))
			for _, p := range pubs {
				rows = append(rows, []string{
					fmt.Sprintf("%d", p.ID), p.Title, p.Venue, string(p.Status),
					fmt.Sprintf("%d", p.Submissions),
				})
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "VENUE", "STATUS", "SUBMISSIONS"}, rows)
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status (draft|submitted|accepted|rejected|published)")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one publication",
		Args:  cobra.ExactArgs(1),
		RunE: publicationByID(opts, func(cmd *cobra.Command, app *app, id int64) (publication.State, error) {
			return app.publications.Get(cmd.Context(), id)
		}),
	}

	var fields []string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update publication fields",
		Args:  cobra.ExactArgs(1),
		RunE: publicationByID(opts, func(cmd *cobra.Command, app *app, id int64) (publication.State, error) {
			parsed, err := parseFields(fields)
			if err != nil {
				return publication.State{}, err
			}
			return app.publications.Update(cmd.Context(), id, parsed)
		}),
	}
	update.Flags().StringArrayVar(&fields, "set", nil, "field update as key=value (repeatable)")

	var venue string
	submit := &cobra.Command{
		Use:   "submit <id>",
		Short: "Record a submission to a venue",
		Args:  cobra.ExactArgs(1),
		RunE: publicationByID(opts, func(cmd *cobra.Command, app *app, id int64) (publication.State, error) {
			return app.publications.Submit(cmd.Context(), id, venue)
		}),
	}
	submit.Flags().StringVar(&venue, "venue", "", "venue submitted to (defaults to the stored venue)")

	var note string
	accept := &cobra.Command{
		Use:   "accept <id>",
		Short: "Record an acceptance",
		Args:  cobra.ExactArgs(1),
		RunE: publicationByID(opts, func(cmd *cobra.Command, app *app, id int64) (publication.State, error) {
			return app.publications.Accept(cmd.Context(), id, note)
		}),
	}
	accept.Flags().StringVar(&note, "note", "", "decision note")

	reject := &cobra.Command{
		Use:   "reject <id>",
		Short: "Record a rejection",
		Args:  cobra.ExactArgs(1),
		RunE: publicationByID(opts, func(cmd *cobra.Command, app *app, id int64) (publication.State, error) {
			return app.publications.Reject(cmd.Context(), id, note)
		}),
	}
	reject.Flags().StringVar(&note, "note", "", "decision note")

	var url string
	publish := &cobra.Command{
		Use:   "publish <id>",
		Short: "Mark an accepted publication as published",
		Args:  cobra.ExactArgs(1),
		RunE: publicationByID(opts, func(cmd *cobra.Command, app *app, id int64) (publication.State, error) {
			return app.publications.Publish(cmd.Context(), id, url)
		}),
	}
	publish.Flags().StringVar(&url, "url", "", "published URL")

	cmd.AddCommand(add, list, show, update, submit, accept, reject, publish)
	return cmd
}

func publicationByID(opts *RootOptions, run func(*cobra.Command, *app, int64) (publication.State, error)) func(*cobra.Command, []string) error {
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
		return renderPublication(cmd, opts, state)
	}
}

func renderPublication(cmd *cobra.Command, opts *RootOptions, state publication.State) error {
	if opts.JSON {
		return printJSON(cmd.OutOrStdout(), state)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "#%d %s [%s]", state.ID, state.Title, state.Status)
	if state.Venue != "" {
		fmt.Fprintf(cmd.OutOrStdout(), " @ %s", state.Venue)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	if state.URL != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", state.URL)
	}
	return nil
}
