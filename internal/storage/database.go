package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"monollogs/internal/config"
	"monollogs/internal/fixtures"
	"monollogs/internal/models"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

const timeLayout = time.RFC3339Nano

// Open connects to the fixture database configured for driver.
func Open(driver string, cfg *config.Config) (*sql.DB, error) {
	dbCfg, ok := cfg.Databases[driver]
	if !ok {
		return nil, fmt.Errorf("database config for %s not found", driver)
	}

	var (
		db  *sql.DB
		err error
	)

	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		if dbCfg.DSN == "" {
			return nil, fmt.Errorf("sqlite dsn must be provided")
		}
		db, err = sql.Open("sqlite3", dbCfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		// :memory: databases exist per connection.
		db.SetMaxOpenConns(1)
	case "mysql":
		dsn := dbCfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
				dbCfg.Username,
				dbCfg.Password,
				dbCfg.Host,
				dbCfg.Port,
				dbCfg.DBName,
				dbCfg.Params,
			)
		}
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate ensures the fixture tables are present.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var stmts []string
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS sessions (
				id TEXT PRIMARY KEY,
				seq INTEGER NOT NULL,
				topic TEXT NOT NULL,
				saved_by TEXT NOT NULL,
				created_at TEXT NOT NULL,
				saved_at TEXT NOT NULL,
				message_count INTEGER NOT NULL DEFAULT 0,
				is_bookmarked INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS todos (
				id INTEGER PRIMARY KEY,
				seq INTEGER NOT NULL,
				content TEXT NOT NULL,
				session TEXT NOT NULL,
				session_id TEXT NOT NULL,
				author TEXT NOT NULL,
				created_at TEXT NOT NULL,
				completed INTEGER NOT NULL DEFAULT 0,
				priority TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS contents (
				content_type TEXT PRIMARY KEY,
				body TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_seq ON sessions(seq)`,
			`CREATE INDEX IF NOT EXISTS idx_todos_seq ON todos(seq)`,
		}
	case "mysql":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS sessions (
				id VARCHAR(64) NOT NULL,
				seq INT NOT NULL,
				topic VARCHAR(255) NOT NULL,
				saved_by VARCHAR(255) NOT NULL,
				created_at VARCHAR(40) NOT NULL,
				saved_at VARCHAR(40) NOT NULL,
				message_count INT NOT NULL DEFAULT 0,
				is_bookmarked TINYINT(1) NOT NULL DEFAULT 0,
				PRIMARY KEY (id),
				INDEX idx_sessions_seq (seq)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS todos (
				id INT NOT NULL,
				seq INT NOT NULL,
				content TEXT NOT NULL,
				session VARCHAR(255) NOT NULL,
				session_id VARCHAR(64) NOT NULL,
				author VARCHAR(255) NOT NULL,
				created_at VARCHAR(40) NOT NULL,
				completed TINYINT(1) NOT NULL DEFAULT 0,
				priority VARCHAR(16) NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_todos_seq (seq)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS contents (
				content_type VARCHAR(32) NOT NULL PRIMARY KEY,
				body MEDIUMTEXT NOT NULL
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		}
	default:
		return fmt.Errorf("unsupported driver for migration: %s", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate (%s): %w", driver, err)
		}
	}
	return nil
}

// Seed writes set into the fixture tables, replacing rows with the same key.
func Seed(ctx context.Context, db *sql.DB, set fixtures.Set) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for i, se := range set.Sessions {
		if _, err := tx.ExecContext(ctx,
			`REPLACE INTO sessions (id, seq, topic, saved_by, created_at, saved_at, message_count, is_bookmarked)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			se.ID, i, se.Topic, se.SavedBy,
			se.CreatedAt.UTC().Format(timeLayout), se.SavedAt.UTC().Format(timeLayout),
			se.MessageCount, se.IsBookmarked,
		); err != nil {
			return fmt.Errorf("seed session %s: %w", se.ID, err)
		}
	}
	for i, td := range set.Todos {
		if _, err := tx.ExecContext(ctx,
			`REPLACE INTO todos (id, seq, content, session, session_id, author, created_at, completed, priority)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			td.ID, i, td.Content, td.Session, td.SessionID, td.Author,
			td.CreatedAt.UTC().Format(timeLayout), td.Completed, string(td.Priority),
		); err != nil {
			return fmt.Errorf("seed todo %d: %w", td.ID, err)
		}
	}
	for kind, body := range set.Content {
		if _, err := tx.ExecContext(ctx,
			`REPLACE INTO contents (content_type, body) VALUES (?, ?)`, string(kind), body,
		); err != nil {
			return fmt.Errorf("seed content %s: %w", kind, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

// LoadFixtures reads the fixture tables back in seed order.
func LoadFixtures(ctx context.Context, db *sql.DB) (fixtures.Set, error) {
	set := fixtures.Set{Content: make(map[models.ContentType]string)}

	rows, err := db.QueryContext(ctx,
		`SELECT id, topic, saved_by, created_at, saved_at, message_count, is_bookmarked
		FROM sessions ORDER BY seq, id`)
	if err != nil {
		return set, fmt.Errorf("query sessions: %w", err)
	}
	for rows.Next() {
		var (
			se               models.Session
			created, savedAt string
		)
		if err := rows.Scan(&se.ID, &se.Topic, &se.SavedBy, &created, &savedAt, &se.MessageCount, &se.IsBookmarked); err != nil {
			rows.Close()
			return set, fmt.Errorf("scan session: %w", err)
		}
		if se.CreatedAt, err = parseTime(created); err != nil {
			rows.Close()
			return set, fmt.Errorf("session %s created_at: %w", se.ID, err)
		}
		if se.SavedAt, err = parseTime(savedAt); err != nil {
			rows.Close()
			return set, fmt.Errorf("session %s saved_at: %w", se.ID, err)
		}
		set.Sessions = append(set.Sessions, se)
	}
	if err := closeRows(rows); err != nil {
		return set, fmt.Errorf("read sessions: %w", err)
	}

	rows, err = db.QueryContext(ctx,
		`SELECT id, content, session, session_id, author, created_at, completed, priority
		FROM todos ORDER BY seq, id`)
	if err != nil {
		return set, fmt.Errorf("query todos: %w", err)
	}
	for rows.Next() {
		var (
			td       models.Todo
			created  string
			priority string
		)
		if err := rows.Scan(&td.ID, &td.Content, &td.Session, &td.SessionID, &td.Author, &created, &td.Completed, &priority); err != nil {
			rows.Close()
			return set, fmt.Errorf("scan todo: %w", err)
		}
		if td.CreatedAt, err = parseTime(created); err != nil {
			rows.Close()
			return set, fmt.Errorf("todo %d created_at: %w", td.ID, err)
		}
		td.Priority = models.Priority(priority)
		set.Todos = append(set.Todos, td)
	}
	if err := closeRows(rows); err != nil {
		return set, fmt.Errorf("read todos: %w", err)
	}

	rows, err = db.QueryContext(ctx, `SELECT content_type, body FROM contents`)
	if err != nil {
		return set, fmt.Errorf("query contents: %w", err)
	}
	for rows.Next() {
		var kind, body string
		if err := rows.Scan(&kind, &body); err != nil {
			rows.Close()
			return set, fmt.Errorf("scan content: %w", err)
		}
		set.Content[models.ContentType(kind)] = body
	}
	if err := closeRows(rows); err != nil {
		return set, fmt.Errorf("read contents: %w", err)
	}
	return set, nil
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(timeLayout, value)
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}
