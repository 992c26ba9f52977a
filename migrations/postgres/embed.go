// Package migrations embeds the SQL migrations for the Postgres store.
package migrations

import "embed"

// FS holds the numbered migration files, {version}_{name}.sql.
//
//go:embed *.sql
var FS embed.FS
