package database

import (
	"context"
	"fmt"

	"schedbot/core/logger"
)

// TableDef pairs an entity's table name with its full DDL. Each module's
// entity package exports one; the server assembles them into a Schema and
// hands it to ApplySchema at startup. The mapping is static: nothing
// registers itself as a side effect of being imported.
type TableDef struct {
	Name string
	DDL  string
}

type Schema []TableDef

// ApplySchema creates the registered tables in order. DDL statements are
// expected to be idempotent (CREATE TABLE IF NOT EXISTS ...), so repeated
// startups are safe.
func (d *Database) ApplySchema(ctx context.Context, schema Schema) error {
	for _, table := range schema {
		if _, err := d.db.ExecContext(ctx, table.DDL); err != nil {
			logger.Error("ApplySchema failed", "table", table.Name, "error", err)
			return fmt.Errorf("apply schema for %s: %w", table.Name, err)
		}
		logger.Debug("ApplySchema applied", "table", table.Name)
	}
	logger.Info("Database schema applied", "tables", len(schema))
	return nil
}
