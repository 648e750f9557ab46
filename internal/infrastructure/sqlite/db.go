package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open abre (o crea) el archivo SQLite del almacén local con WAL y
// foreign keys activos. El pool queda limitado a una conexión: SQLite es de
// escritor único y la app serializa sus comandos por transacción.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: abrir %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sqlite: ping %s: %w", path, err)
	}
	return db, nil
}

// Migrate crea el esquema local si no existe. Las tablas sincronizables
// llevan uuid (identidad entre dispositivos), last_updated (TEXT UTC con
// milisegundos) y dirty (1 = cambio pendiente de push). El id autoincremental
// es solo local. stock y users son locales y no se sincronizan.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS harvests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			culture TEXT NOT NULL DEFAULT '',
			product TEXT NOT NULL,
			quantity REAL NOT NULL,
			frozen REAL NOT NULL DEFAULT 0,
			date TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			last_updated TEXT NOT NULL,
			dirty INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			client TEXT NOT NULL DEFAULT '',
			product TEXT NOT NULL,
			quantity REAL NOT NULL,
			value REAL NOT NULL DEFAULT 0,
			date TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			last_updated TEXT NOT NULL,
			dirty INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS purchases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			item TEXT NOT NULL,
			quantity REAL NOT NULL,
			value REAL NOT NULL DEFAULT 0,
			culture TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			details TEXT NOT NULL DEFAULT '',
			last_updated TEXT NOT NULL,
			dirty INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS disposals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			product TEXT NOT NULL,
			quantity REAL NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL,
			last_updated TEXT NOT NULL,
			dirty INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL UNIQUE,
			unit TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			stockable INTEGER NOT NULL DEFAULT 1,
			sellable INTEGER NOT NULL DEFAULT 1,
			conversion_factor REAL NOT NULL DEFAULT 1,
			sale_price REAL NOT NULL DEFAULT 0,
			last_updated TEXT NOT NULL,
			dirty INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS recipes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			parent_uuid TEXT NOT NULL,
			child_uuid TEXT NOT NULL,
			quantity REAL NOT NULL,
			last_updated TEXT NOT NULL,
			dirty INTEGER NOT NULL DEFAULT 1,
			UNIQUE (parent_uuid, child_uuid)
		)`,
		`CREATE TABLE IF NOT EXISTS stock (
			product TEXT PRIMARY KEY,
			quantity REAL NOT NULL DEFAULT 0,
			last_updated TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'USUARIO',
			email TEXT NOT NULL DEFAULT '',
			full_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			last_updated TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS config (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_harvests_dirty ON harvests (dirty)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_dirty ON sales (dirty)`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_dirty ON purchases (dirty)`,
		`CREATE INDEX IF NOT EXISTS idx_disposals_dirty ON disposals (dirty)`,
		`CREATE INDEX IF NOT EXISTS idx_products_dirty ON products (dirty)`,
		`CREATE INDEX IF NOT EXISTS idx_recipes_dirty ON recipes (dirty)`,
		`CREATE INDEX IF NOT EXISTS idx_recipes_parent ON recipes (parent_uuid)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("sqlite: migración: %w", err)
		}
	}
	return nil
}
