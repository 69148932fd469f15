// Package database keeps a local history of posts sent through the CLI.
package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

func Open(databaseFile string) error {
	db, err := sql.Open("sqlite3", databaseFile+"?_journal_mode=WAL")
	if err != nil {
		return err
	}

	DB = db
	return nil
}

func CreateTables() error {
	query := `
		CREATE TABLE IF NOT EXISTS dynamics (
			id INTEGER PRIMARY KEY,
			content TEXT,
			scene INTEGER NOT NULL DEFAULT 1,
			kind TEXT NOT NULL DEFAULT 'post',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`
	_, err := DB.Exec(query)
	return err
}

func Close() {
	if DB != nil {
		if err := DB.Close(); err != nil {
			slog.Error(
				"Error closing database",
				"error", err.Error(),
			)
		} else {
			fmt.Println("[!] — Database closed")
		}
	}
}

// SaveDynamic records a post or repost sent through this machine.
func SaveDynamic(id int64, content string, scene int, kind string) error {
	query := `
		INSERT INTO dynamics (id, content, scene, kind) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET content = excluded.content
	`
	_, err := DB.Exec(query, id, content, scene, kind)
	return err
}

type SentDynamic struct {
	ID        int64
	Content   string
	Scene     int
	Kind      string
	CreatedAt string
}

// RecentDynamics lists the newest entries first.
func RecentDynamics(limit int) ([]SentDynamic, error) {
	rows, err := DB.Query(`
		SELECT id, content, scene, kind, created_at
		FROM dynamics ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SentDynamic
	for rows.Next() {
		var d SentDynamic
		if err := rows.Scan(&d.ID, &d.Content, &d.Scene, &d.Kind, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
