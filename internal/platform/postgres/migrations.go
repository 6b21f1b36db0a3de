package postgres

import "embed"

// MigrationsDir is the directory inside MigrationsFS holding goose migrations.
const MigrationsDir = "migrations"

// MigrationsFS holds the schema migrations, applied with goose.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
