package migrations

import "embed"

// FS contains embedded SQLite migrations for song library storage.
//
//go:embed *.sql
var FS embed.FS
