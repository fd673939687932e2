// Package migrations embeds the SQL migrations for the event log store.
package migrations

import "embed"

// FS holds the embedded migration files.
//
//go:embed *.sql
var FS embed.FS
