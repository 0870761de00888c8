// Package migrations embeds the schema migration files for both storage
// drivers.
package migrations

import "embed"

// SQLite holds the SQLite migration files.
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Postgres holds the PostgreSQL migration files.
//
//go:embed postgres/*.sql
var Postgres embed.FS
