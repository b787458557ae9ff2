package database

import (
	"context"
	"database/sql"
	"fmt"

	"shop-tracker/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// DB encapsula a conexão com o banco de dados.
// Cada campo de primeiro nível do documento é uma linha JSON na tabela storage.
type DB struct {
	conn   *sql.DB
	logger *logrus.Logger
}

// New cria uma nova instância do banco de dados
func New(dbPath string, logger *logrus.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// SQLite aceita um único escritor
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, logger: logger}

	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}

	logger.WithField("path", dbPath).Info("Banco de dados inicializado com sucesso")
	return db, nil
}

// Close fecha a conexão com o banco de dados
func (db *DB) Close() error {
	return db.conn.Close()
}

// init cria as tabelas necessárias
func (db *DB) init() error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS storage (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := db.conn.Exec(createTableSQL)
	return err
}

// Read carrega o documento; campos nunca gravados ficam com os valores de defaults
func (db *DB) Read(ctx context.Context, defaults models.Document) (models.Document, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT key, value FROM storage")
	if err != nil {
		return models.Document{}, err
	}
	defer rows.Close()

	doc := defaults.Clone()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Document{}, err
		}
		if err := doc.DecodeField(key, []byte(value)); err != nil {
			return models.Document{}, err
		}
	}
	return doc, rows.Err()
}

// Write grava os campos presentes no patch em uma única transação
func (db *DB) Write(ctx context.Context, patch models.Patch) error {
	fields, err := patch.Encode()
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, raw := range fields {
		if _, err := stmt.ExecContext(ctx, key, string(raw)); err != nil {
			return fmt.Errorf("erro ao gravar %s: %w", key, err)
		}
	}
	return tx.Commit()
}
