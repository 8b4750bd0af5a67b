package book

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsDir is the path of the schema files inside Migrations().
const MigrationsDir = "migrations"

// Migrations exposes the embedded ledger schema for provisioning a
// fresh book file.
func Migrations() fs.FS { return migrationsFS }
