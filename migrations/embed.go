// Package migrations embeds the versioned PostgreSQL schema so binaries and
// tests can migrate without a checkout of the repository.
package migrations

import "embed"

// FS holds every NNNNNN_name.{up,down}.sql file
//
//go:embed *.sql
var FS embed.FS
