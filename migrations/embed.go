package migrations

import "embed"

// FS SQL-миграции схемы, применяются cmd/migrate
//
//go:embed *.sql
var FS embed.FS
