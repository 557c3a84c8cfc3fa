package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Rig mappings table - one row per stored skeleton convention
		`CREATE TABLE IF NOT EXISTS rig_mappings (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			root TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Rig bones table - the ordered bone definitions of a mapping.
		// NULL limit columns mean the axis is unbounded on that side.
		`CREATE TABLE IF NOT EXISTS rig_bones (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mapping_id TEXT NOT NULL REFERENCES rig_mappings(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			parent TEXT NOT NULL DEFAULT '',
			region TEXT NOT NULL,
			rule TEXT NOT NULL CHECK(rule IN ('direction', 'chain')),
			landmarks TEXT NOT NULL,
			limit_x_min REAL, limit_x_max REAL,
			limit_y_min REAL, limit_y_max REAL,
			limit_z_min REAL, limit_z_max REAL,
			corr_w REAL NOT NULL DEFAULT 1,
			corr_x REAL NOT NULL DEFAULT 0,
			corr_y REAL NOT NULL DEFAULT 0,
			corr_z REAL NOT NULL DEFAULT 0,
			scale REAL NOT NULL DEFAULT 1
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_rig_bones_mapping_id ON rig_bones(mapping_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_rig_bones_mapping_seq ON rig_bones(mapping_id, seq)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
