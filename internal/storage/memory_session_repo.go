package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemorySessionRepo реализует SessionRepo в памяти.
// Используется как fallback, когда БД недоступна,
// или для CI/локальной разработки.
// ВНИМАНИЕ: Данные теряются при перезапуске процесса!
type MemorySessionRepo struct {
	mu   sync.RWMutex
	data map[string]SessionState
}

// NewMemorySessionRepo создает новый репозиторий сессий в памяти.
func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{
		data: make(map[string]SessionState),
	}
}

// Save сохраняет состояние сессии в памяти.
func (r *MemorySessionRepo) Save(ctx context.Context, state SessionState) error {
	if state.SessionID == "" {
		return fmt.Errorf("пустой SessionID")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[state.SessionID] = state
	return nil
}

// Load загружает состояние сессии из памяти.
func (r *MemorySessionRepo) Load(ctx context.Context, sessionID string) (SessionState, bool, error) {
	if sessionID == "" {
		return SessionState{}, false, fmt.Errorf("пустой sessionID")
	}

	select {
	case <-ctx.Done():
		return SessionState{}, false, ctx.Err()
	default:
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.data[sessionID]
	return state, ok, nil
}

// Delete удаляет сохранение сессии.
func (r *MemorySessionRepo) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("пустой sessionID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, sessionID)
	return nil
}

// Close ничего не освобождает для репозитория в памяти.
func (r *MemorySessionRepo) Close() error {
	return nil
}
