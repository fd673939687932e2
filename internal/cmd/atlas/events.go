package atlas

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlasos/atlas/internal/spine/event"
	"github.com/atlasos/atlas/internal/spine/projection"
	"github.com/atlasos/atlas/internal/spine/storage"
	"github.com/atlasos/atlas/internal/trackers"
)

// newEventsCommand lists and counts raw event log entries.
func newEventsCommand(opts *RootOptions) *cobra.Command {
	var (
		entityType string
		eventType  string
		entityID   int64
		since      string
		afterID    int64
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the raw event log",
	}

	buildFilter := func() (storage.Filter, error) {
		filter := storage.Filter{
			EntityType: entityType,
			EventType:  event.Type(eventType),
			EntityID:   entityID,
		}
		if since != "" {
			ts, err := time.Parse(time.RFC3339, since)
			if err != nil {
				return storage.Filter{}, fmt.Errorf("parse --since: %w", err)
			}
			filter.Since = ts
		}
		return filter, nil
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List events in append order",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			filter, err := buildFilter()
			if err != nil {
				return err
			}
			events, err := app.store.List(cmd.Context(), filter, afterID, limit)
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), events)
			}
			rows := make([][]string, 0, len(events))
			for _, evt := range events {
				rows = append(rows, eventRow(evt))
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "TYPE", "ENTITY", "ENTITY_ID", "TIMESTAMP"}, rows)
		},
	}

	count := &cobra.Command{
		Use:   "count",
		Short: "Count events matching the filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			filter, err := buildFilter()
			if err != nil {
				return err
			}
			n, err := app.store.Count(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), map[string]int64{"count": n})
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&entityType, "entity-type", "", "filter by entity type")
	cmd.PersistentFlags().StringVar(&eventType, "event-type", "", "filter by event type")
	cmd.PersistentFlags().Int64Var(&entityID, "entity-id", 0, "filter by entity id")
	cmd.PersistentFlags().StringVar(&since, "since", "", "only events at or after this RFC3339 timestamp")
	list.Flags().Int64Var(&afterID, "after-id", 0, "resume listing after this event id")
	list.Flags().IntVar(&limit, "limit", 50, "maximum events to return")

	cmd.AddCommand(list, count)
	return cmd
}

// newExplainCommand prints the full audit trail for one entity.
func newExplainCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <entity-type> <id>",
		Short: "Show every event ever recorded for an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("parse entity id %q: %w", args[1], err)
			}

			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			history, err := app.store.Explain(cmd.Context(), args[0], id)
			if err != nil {
				return err
			}
			anomalies := projection.AuditHistory(history, trackers.GenesisTypes(args[0])...)
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), struct {
					Events    []event.Event        `json:"events"`
					Anomalies []projection.Anomaly `json:"anomalies,omitempty"`
				}{Events: history, Anomalies: anomalies})
			}
			rows := make([][]string, 0, len(history))
			for _, evt := range history {
				row := eventRow(evt)
				rows = append(rows, append(row, string(evt.Payload)))
			}
			if err := printTable(cmd.OutOrStdout(), []string{"ID", "TYPE", "ENTITY", "ENTITY_ID", "TIMESTAMP", "PAYLOAD"}, rows); err != nil {
				return err
			}
			for _, a := range anomalies {
				fmt.Fprintf(cmd.OutOrStdout(), "anomaly: %s\n", a)
			}
			return nil
		},
	}
}
