// Package migrations embeds the goose schema migrations per SQL dialect.
package migrations

import "embed"

// FS holds one directory per dialect: postgres and sqlite.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Migration directories inside FS.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)
