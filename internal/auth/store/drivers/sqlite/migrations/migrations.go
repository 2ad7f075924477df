package migrations

import "embed"

// Migrations holds the SQL migration files, embedded so the binary carries
// its own schema.
//
//go:embed *.sql
var Migrations embed.FS
