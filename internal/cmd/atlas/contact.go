package atlas

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlasos/atlas/internal/trackers/contact"
)

func newContactCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage contacts and keep-in-touch cadence",
	}

	var payload contact.AddPayload
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			payload.Name = args[0]
			state, err := app.contacts.Add(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return renderContact(cmd, opts, state)
		},
	}
	add.Flags().StringVar(&payload.Email, "email", "", "email address")
	add.Flags().StringVar(&payload.Phone, "phone", "", "phone number")
	add.Flags().StringVar(&payload.Company, "company", "", "company")
	add.Flags().StringVar(&payload.Notes, "notes", "", "free-form notes")
	add.Flags().IntVar(&payload.FrequencyDays, "every", 0, "keep-in-touch cadence in days")

	var (
		overdue         bool
		includeArchived bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			var contacts []contact.State
			if overdue {
				contacts, err = app.contacts.Overdue(cmd.Context(), time.Now())
			} else {
				contacts, err = app.contacts.List(cmd.Context(), includeArchived)
			}
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), contacts)
			}
			rows := make([][]string, 0, len(contacts))
			for _, ct := range contacts {
				cadence := ""
				if ct.FrequencyDays > 0 {
					cadence = fmt.Sprintf("%dd", ct.FrequencyDays)
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", ct.ID), ct.Name, ct.Company, cadence, ct.LastContact,
				})
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "COMPANY", "CADENCE", "LAST_TOUCH"}, rows)
		},
	}
	list.Flags().BoolVar(&overdue, "overdue", false, "only contacts past their cadence")
	list.Flags().BoolVar(&includeArchived, "all", false, "include archived contacts")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one contact",
		Args:  cobra.ExactArgs(1),
		RunE: contactByID(opts, func(cmd *cobra.Command, app *app, id int64) (contact.State, error) {
			return app.contacts.Get(cmd.Context(), id)
		}),
	}

	var fields []string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update contact fields",
		Args:  cobra.ExactArgs(1),
		RunE: contactByID(opts, func(cmd *cobra.Command, app *app, id int64) (contact.State, error) {
			parsed, err := parseFields(fields)
			if err != nil {
				return contact.State{}, err
			}
			return app.contacts.Update(cmd.Context(), id, parsed)
		}),
	}
	update.Flags().StringArrayVar(&fields, "set", nil, "field update as key=value (repeatable)")

	archive := &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a contact",
		Args:  cobra.ExactArgs(1),
		RunE: contactByID(opts, func(cmd *cobra.Command, app *app, id int64) (contact.State, error) {
			return app.contacts.Archive(cmd.Context(), id)
		}),
	}

	var date, note string
	touch := &cobra.Command{
		Use:   "touch <id>",
		Short: "Record an interaction",
		Args:  cobra.ExactArgs(1),
		RunE: contactByID(opts, func(cmd *cobra.Command, app *app, id int64) (contact.State, error) {
			return app.contacts.Touch(cmd.Context(), id, date, note)
		}),
	}
	touch.Flags().StringVar(&date, "date", "", "interaction date (YYYY-MM-DD, default today)")
	touch.Flags().StringVar(&note, "note", "", "what happened")

	cmd.AddCommand(add, list, show, update, archive, touch)
	return cmd
}

func contactByID(opts *RootOptions, run func(*cobra.Command, *app, int64) (contact.State, error)) func(*cobra.Command, []string) error {
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
		return renderContact(cmd, opts, state)
	}
}

func renderContact(cmd *cobra.Command, opts *RootOptions, state contact.State) error {
	if opts.JSON {
		return printJSON(cmd.OutOrStdout(), state)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "#%d %s", state.ID, state.Name)
	if state.Company != "" {
		fmt.Fprintf(cmd.OutOrStdout(), " (%s)", state.Company)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	if state.LastContact != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  last touch: %s (%d total)\n", state.LastContact, state.Touches)
	}
	if state.Overdue(time.Now()) {
		fmt.Fprintln(cmd.OutOrStdout(), "  overdue")
	}
	return nil
}
