package main

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all database migrations. Each migration
// file registers itself in its init function.
var Migrations = migrate.NewMigrations()
