package storage

import (
	"context"
	"time"

	"github.com/annel0/openworld/internal/vec"
)

// SessionState - минимальное состояние сессии для сохранения.
// Персистятся только последний биом и позиция якоря; уровни симуляции,
// погода и состояние триггеров пересчитываются из позиции при загрузке.
type SessionState struct {
	SessionID string    `json:"session_id"`
	Biome     string    `json:"biome"`
	Position  vec.Vec2  `json:"position"`
	SavedAt   time.Time `json:"saved_at"`
}

// SessionRepo определяет интерфейс сохранения и загрузки сессий мира.
type SessionRepo interface {
	// Save сохраняет состояние сессии.
	Save(ctx context.Context, state SessionState) error

	// Load загружает состояние сессии.
	// Второй результат false означает отсутствие сохранения (первый запуск).
	Load(ctx context.Context, sessionID string) (SessionState, bool, error)

	// Delete удаляет сохранение (для тестов или сброса).
	Delete(ctx context.Context, sessionID string) error

	// Close освобождает ресурсы репозитория.
	Close() error
}
