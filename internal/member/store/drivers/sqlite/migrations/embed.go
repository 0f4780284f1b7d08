package migrations

import "embed"

// Migrations holds the sqlite schema migration files, embedded so the binary
// is self-contained.
//
//go:embed *.sql
var Migrations embed.FS
