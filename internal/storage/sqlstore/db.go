package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"

	"github.com/pdxmph/todo-tui/internal/storage"
	"github.com/pdxmph/todo-tui/internal/task"
)

// DB wraps the database connection and implements storage.Backend
type DB struct {
	conn     *sql.DB
	dialect  dialect
	location string
}

// OpenSQLite opens (creating if needed) a SQLite database file
func OpenSQLite(path string) (storage.Backend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite backend needs a database path")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn, dialect: sqliteDialect, location: path}
	if err := db.RunMigrations(); err != nil {
		conn.Close()
		if isCorruptSQLite(err) {
			return nil, &storage.ParseError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// OpenMySQL connects to a MySQL server using a go-sql-driver DSN
// (user:pass@tcp(host:3306)/dbname)
func OpenMySQL(dsn string) (storage.Backend, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing mysql dsn: %w", err)
	}
	if cfg.DBName == "" {
		return nil, errors.New("mysql dsn must name a database")
	}

	conn, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to mysql: %w", err)
	}

	db := &DB{conn: conn, dialect: mysqlDialect, location: mysqlLocation(cfg)}
	if err := db.RunMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// mysqlLocation describes a DSN without its password
func mysqlLocation(cfg *mysql.Config) string {
	return fmt.Sprintf("%s@%s(%s)/%s", cfg.User, cfg.Net, cfg.Addr, cfg.DBName)
}

// isCorruptSQLite reports whether err means the file is not a usable database
func isCorruptSQLite(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrNotADB || serr.Code == sqlite3.ErrCorrupt
	}
	return false
}

// Name returns the backend identifier
func (db *DB) Name() string {
	return db.dialect.name
}

// Location returns the database path or a password-free DSN
func (db *DB) Location() string {
	return db.location
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Load returns all tasks in list order
func (db *DB) Load() ([]task.Task, error) {
	query := `
		SELECT description, priority, date_added, status
		FROM tasks
		ORDER BY position
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		var t task.Task
		var priority, status string
		if err := rows.Scan(&t.Description, &priority, &t.DateAdded, &status); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		t.Priority = task.Priority(priority)
		t.Status = task.Status(status)
		if !t.Status.Valid() {
			// mysql has no CHECK on status
			return nil, &storage.ParseError{
				Path: db.location,
				Err:  fmt.Errorf("task %d has unknown status %q", len(tasks), status),
			}
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// Save replaces every row with tasks inside one transaction
func (db *DB) Save(tasks []task.Task) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO tasks (position, description, priority, date_added, status)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		if _, err := stmt.Exec(i, t.Description, string(t.Priority), t.DateAdded, string(t.Status)); err != nil {
			return fmt.Errorf("inserting task %q: %w", t.Description, err)
		}
	}

	return tx.Commit()
}

func init() {
	storage.Register("sqlite", OpenSQLite)
	storage.Register("mysql", OpenMySQL)
}
