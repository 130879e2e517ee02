package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MariaSessionRepo реализует SessionRepo для базы данных MariaDB/MySQL.
// Использует таблицу world_sessions.
type MariaSessionRepo struct {
	db *sql.DB
}

// NewMariaSessionRepo подключается к MariaDB и создаёт таблицу при необходимости.
// dsn - строка подключения (user:pass@tcp(host:port)/dbname).
func NewMariaSessionRepo(dsn string) (*MariaSessionRepo, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к MariaDB: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось проверить соединение с MariaDB: %w", err)
	}

	repo := &MariaSessionRepo{db: db}

	if err := repo.createTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать таблицу: %w", err)
	}

	return repo, nil
}

// createTable создаёт таблицу world_sessions, если она не существует.
func (r *MariaSessionRepo) createTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS world_sessions (
			session_id VARCHAR(64)  PRIMARY KEY,
			biome      VARCHAR(64)  NOT NULL,
			pos_x      DOUBLE       NOT NULL,
			pos_y      DOUBLE       NOT NULL,
			saved_at   TIMESTAMP    DEFAULT CURRENT_TIMESTAMP
			           ON UPDATE    CURRENT_TIMESTAMP,
			INDEX idx_saved_at (saved_at)
		) ENGINE=InnoDB
	`

	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("ошибка создания таблицы world_sessions: %w", err)
	}
	return nil
}

// Save сохраняет состояние сессии.
// INSERT ... ON DUPLICATE KEY UPDATE перезаписывает существующую запись.
func (r *MariaSessionRepo) Save(ctx context.Context, state SessionState) error {
	if state.SessionID == "" {
		return fmt.Errorf("пустой SessionID")
	}

	query := `
		INSERT INTO world_sessions (session_id, biome, pos_x, pos_y)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			biome = VALUES(biome),
			pos_x = VALUES(pos_x),
			pos_y = VALUES(pos_y)
	`

	_, err := r.db.ExecContext(ctx, query, state.SessionID, state.Biome, state.Position.X, state.Position.Y)
	if err != nil {
		return fmt.Errorf("ошибка сохранения сессии %s: %w", state.SessionID, err)
	}
	return nil
}

// Load загружает состояние сессии.
func (r *MariaSessionRepo) Load(ctx context.Context, sessionID string) (SessionState, bool, error) {
	if sessionID == "" {
		return SessionState{}, false, fmt.Errorf("пустой sessionID")
	}

	query := `SELECT biome, pos_x, pos_y, saved_at FROM world_sessions WHERE session_id = ?`

	state := SessionState{SessionID: sessionID}
	var savedAt time.Time
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&state.Biome, &state.Position.X, &state.Position.Y, &savedAt)
	if err == sql.ErrNoRows {
		return SessionState{}, false, nil
	}
	if err != nil {
		return SessionState{}, false, fmt.Errorf("ошибка загрузки сессии %s: %w", sessionID, err)
	}

	state.SavedAt = savedAt
	return state, true, nil
}

// Delete удаляет сохранение сессии.
func (r *MariaSessionRepo) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("пустой sessionID")
	}

	_, err := r.db.ExecContext(ctx, `DELETE FROM world_sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("ошибка удаления сессии %s: %w", sessionID, err)
	}
	return nil
}

// Close закрывает подключение к базе данных.
func (r *MariaSessionRepo) Close() error {
	return r.db.Close()
}
