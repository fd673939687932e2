// Package atlas implements the command-line surface over the event log.
package atlas

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	entrypoint "github.com/atlasos/atlas/internal/platform/cmd"
	"github.com/atlasos/atlas/internal/spine/event"
	"github.com/atlasos/atlas/internal/spine/storage/sqlite"
	"github.com/atlasos/atlas/internal/trackers"
	"github.com/atlasos/atlas/internal/trackers/contact"
	"github.com/atlasos/atlas/internal/trackers/goal"
	"github.com/atlasos/atlas/internal/trackers/habit"
	"github.com/atlasos/atlas/internal/trackers/note"
	"github.com/atlasos/atlas/internal/trackers/publication"
	"github.com/atlasos/atlas/internal/trackers/task"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DBPath string
	JSON   bool
}

// Config carries CLI configuration loaded from the environment.
type Config struct {
	DBPath string `env:"ATLAS_DB_PATH" envDefault:"atlas.db"`
}

// NewRootCommand creates the root command for the Atlas CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		cfg.DBPath = "atlas.db"
	}

	cmd := &cobra.Command{
		Use:           "atlas",
		Short:         "Atlas - a personal tracker over an append-only event log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", cfg.DBPath, "path to the event log database")
	cmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "emit JSON instead of tables")

	cmd.AddCommand(newGoalCommand(opts))
	cmd.AddCommand(newTaskCommand(opts))
	cmd.AddCommand(newNoteCommand(opts))
	cmd.AddCommand(newHabitCommand(opts))
	cmd.AddCommand(newContactCommand(opts))
	cmd.AddCommand(newPublicationCommand(opts))
	cmd.AddCommand(newEventsCommand(opts))
	cmd.AddCommand(newExplainCommand(opts))

	return cmd
}

// app bundles one open store with every tracker service.
type app struct {
	store        *sqlite.Store
	goals        *goal.Service
	tasks        *task.Service
	notes        *note.Service
	habits       *habit.Service
	contacts     *contact.Service
	publications *publication.Service
}

func openApp(opts *RootOptions) (*app, error) {
	store, err := sqlite.Open(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open event store: %w", err)
	}
	registry := trackers.NewRegistry()
	return &app{
		store:        store,
		goals:        goal.NewService(store, registry),
		tasks:        task.NewService(store, registry),
		notes:        note.NewService(store, registry),
		habits:       habit.NewService(store, registry),
		contacts:     contact.NewService(store, registry),
		publications: publication.NewService(store, registry),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable renders rows under a header with aligned columns.
func printTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, col := range header {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// parseFields turns repeated key=value flags into an update map.
func parseFields(pairs []string) (map[string]string, error) {
	fields := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q: expected key=value", pair)
		}
		fields[key] = value
	}
	return fields, nil
}

func parseEntityID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: expected a positive integer", arg)
	}
	return id, nil
}

func eventRow(evt event.Event) []string {
	return []string{
		fmt.Sprintf("%d", evt.ID),
		string(evt.Type),
		evt.EntityType,
		fmt.Sprintf("%d", evt.EntityID),
		evt.Timestamp.Format("2006-01-02 15:04:05"),
	}
}
