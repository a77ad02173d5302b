package faq

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
)

// SQLite sources keep entries in a single table; rowid order is entry order.
const sqliteSchema = `CREATE TABLE IF NOT EXISTS faqs (
	question TEXT NOT NULL DEFAULT '',
	answer   TEXT NOT NULL DEFAULT ''
)`

func openSQLite(path string, readOnly bool) (*sql.DB, error) {
	dsn := path
	if readOnly {
		dsn += "?mode=ro"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// DSN params may be ignored by modernc.org/sqlite
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set pragma: %w", err)
	}
	return db, nil
}

func loadSQLite(path string) ([]Entry, error) {
	db, err := openSQLite(path, true)
	if err != nil {
		return nil, corrupt(path, err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(context.Background(), "SELECT question, answer FROM faqs ORDER BY rowid")
	if err != nil {
		return nil, corrupt(path, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var q, a any
		if err := rows.Scan(&q, &a); err != nil {
			return nil, corrupt(path, err)
		}
		entries = append(entries, Entry{Question: fieldString(q), Answer: fieldString(a)})
	}
	if err := rows.Err(); err != nil {
		return nil, corrupt(path, err)
	}
	return entries, nil
}

func appendSQLite(path string, e Entry) error {
	db, err := openSQLite(path, false)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeFilePermission, "cannot open FAQ database", err).
			WithDetail("path", path)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return corrupt(path, err)
	}
	if _, err := db.Exec("INSERT INTO faqs (question, answer) VALUES (?, ?)", e.Question, e.Answer); err != nil {
		return apperrors.New(apperrors.ErrCodeFileLocked, "failed to insert FAQ entry", err).
			WithDetail("path", path)
	}
	return nil
}
