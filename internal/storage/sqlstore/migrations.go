package sqlstore

import (
	"database/sql"
	"fmt"
	"log"
)

// dialect holds what differs between the SQL engines
type dialect struct {
	name string

	// schema creates the tasks table at schemaVersion
	schema string

	// version reads and records the applied schema version
	version    func(conn *sql.DB) (int, error)
	setVersion func(tx *sql.Tx, v int) error
}

const schemaVersion = 1

var sqliteDialect = dialect{
	name: "sqlite",
	schema: `
CREATE TABLE IF NOT EXISTS tasks (
    position INTEGER PRIMARY KEY,
    description TEXT NOT NULL,
    priority TEXT NOT NULL,
    date_added TEXT NOT NULL,
    status TEXT CHECK (status IN ('Pending', 'Completed')) NOT NULL DEFAULT 'Pending'
);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks (status);`,
	version: func(conn *sql.DB) (int, error) {
		var v int
		err := conn.QueryRow(`PRAGMA user_version`).Scan(&v)
		return v, err
	},
	setVersion: func(tx *sql.Tx, v int) error {
		// PRAGMA does not take bind parameters
		_, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, v))
		return err
	},
}

var mysqlDialect = dialect{
	name: "mysql",
	schema: `
CREATE TABLE IF NOT EXISTS tasks (
    position INT PRIMARY KEY,
    description TEXT NOT NULL,
    priority VARCHAR(32) NOT NULL,
    date_added CHAR(10) NOT NULL,
    status VARCHAR(16) NOT NULL DEFAULT 'Pending'
)`,
	version: func(conn *sql.DB) (int, error) {
		if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INT NOT NULL)`); err != nil {
			return 0, err
		}
		var v int
		err := conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&v)
		return v, err
	},
	setVersion: func(tx *sql.Tx, v int) error {
		if _, err := tx.Exec(`DELETE FROM schema_version`); err != nil {
			return err
		}
		_, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, v)
		return err
	},
}

// RunMigrations applies any pending database migrations
func (db *DB) RunMigrations() error {
	current, err := db.dialect.version(db.conn)
	if err != nil {
		return fmt.Errorf("checking schema version: %w", err)
	}

	if current >= schemaVersion {
		return nil
	}

	log.Printf("Running migration: creating tasks schema (version %d -> %d)...", current, schemaVersion)

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(db.dialect.schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if err := db.dialect.setVersion(tx, schemaVersion); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}

	log.Println("Migration completed successfully")
	return nil
}
