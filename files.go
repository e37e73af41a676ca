package guard

import (
	"embed"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the migration files for the credential store
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
