package view

import "database/sql"

// The view is rebuildable from the log, so speed wins over durability.
var pragmas = []string{
	"PRAGMA synchronous = OFF",
	"PRAGMA page_size = 8192",
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS messages (
	  id INTEGER PRIMARY KEY,
	  key TEXT UNIQUE,
	  seq INTEGER,
	  received_time REAL,
	  asserted_time REAL,
	  root TEXT,
	  branch TEXT,
	  fork TEXT,
	  author_id INTEGER,
	  content_type TEXT,
	  content TEXT,
	  is_decrypted INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS authors (
	  id INTEGER PRIMARY KEY,
	  author TEXT UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS links (
	  id INTEGER PRIMARY KEY,
	  flume_seq INTEGER,
	  link_from TEXT,
	  link_to TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS heads (
	  id INTEGER PRIMARY KEY,
	  flume_seq INTEGER,
	  links_from INTEGER,
	  links_to INTEGER
	)`,
}

var indices = []string{
	`CREATE INDEX IF NOT EXISTS author_id_index ON messages (author_id)`,
	`CREATE INDEX IF NOT EXISTS links_to_index ON links (link_to)`,
	`CREATE INDEX IF NOT EXISTS content_type_index ON messages (content_type)`,
}

func initSchema(db *sql.DB) error {
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	for _, stmt := range tables {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	for _, stmt := range indices {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
