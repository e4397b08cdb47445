package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// migration is one schema step. Migrations are identified by a version
// number recorded in schema_migrations; each runs at most once, in order.
// This replaces ad hoc "add column if missing" scripts with a ledger the
// database itself remembers.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "create core tables",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS shows (
				id   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
				name VARCHAR(255) NOT NULL
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS show_dates (
				id        BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
				show_id   BIGINT UNSIGNED NOT NULL,
				starts_at DATETIME NOT NULL,
				ends_at   DATETIME NOT NULL,
				CONSTRAINT fk_show_dates_show FOREIGN KEY (show_id)
					REFERENCES shows (id) ON DELETE CASCADE
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS participants (
				id       BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
				name     VARCHAR(255) NOT NULL,
				email    VARCHAR(255) NOT NULL,
				phone    VARCHAR(64)  NULL,
				approved TINYINT(1) NOT NULL DEFAULT 0,
				UNIQUE KEY uq_participants_email (email)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS shifts (
				id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
				show_date_id   BIGINT UNSIGNED NOT NULL,
				role           VARCHAR(128) NOT NULL,
				arrive_at      DATETIME NOT NULL,
				depart_at      DATETIME NOT NULL,
				participant_id BIGINT UNSIGNED NULL,
				CONSTRAINT fk_shifts_show_date FOREIGN KEY (show_date_id)
					REFERENCES show_dates (id) ON DELETE CASCADE,
				CONSTRAINT fk_shifts_participant FOREIGN KEY (participant_id)
					REFERENCES participants (id) ON DELETE SET NULL
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		},
	},
	{
		version: 2,
		name:    "index shifts by participant",
		stmts: []string{
			`CREATE INDEX idx_shifts_participant ON shifts (participant_id)`,
			`CREATE INDEX idx_shifts_show_date ON shifts (show_date_id)`,
		},
	},
}

// Migrate applies any pending migrations. It is safe to call on every
// startup; applied versions are skipped.
func Migrate(ctx context.Context, db *sql.DB) error {
	const ledger = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INT NOT NULL PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
	if _, err := db.ExecContext(ctx, ledger); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := map[int]bool{}
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return err
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		// MySQL DDL commits implicitly, so a transaction cannot make a
		// multi-statement migration atomic; the ledger row is written last
		// and a partially applied step surfaces as an error on rerun.
		for _, stmt := range m.stmts {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
			}
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`,
			m.version, m.name,
		); err != nil {
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		log.Printf("applied migration %d: %s", m.version, m.name)
	}
	return nil
}
