package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"
)

// BadgerSessionRepo хранит сессии локально в BadgerDB.
// Используется в одиночном режиме без внешней БД.
// Полезная нагрузка сжимается zstd перед записью.
type BadgerSessionRepo struct {
	db      *badger.DB
	mu      sync.RWMutex
	isReady bool
	enc     *zstd.Encoder
	dec     *zstd.Decoder
}

// NewBadgerSessionRepo открывает локальное хранилище сессий.
func NewBadgerSessionRepo(dataPath string) (*BadgerSessionRepo, error) {
	dbPath := filepath.Join(dataPath, "sessions")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}

	return &BadgerSessionRepo{
		db:      db,
		isReady: true,
		enc:     enc,
		dec:     dec,
	}, nil
}

// sessionKey возвращает ключ сессии в BadgerDB.
func sessionKey(sessionID string) []byte {
	return []byte("session:" + sessionID)
}

// Save сохраняет состояние сессии.
func (r *BadgerSessionRepo) Save(ctx context.Context, state SessionState) error {
	if state.SessionID == "" {
		return fmt.Errorf("пустой SessionID")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("сериализация сессии: %w", err)
	}
	compressed := r.enc.EncodeAll(data, nil)

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sessionKey(state.SessionID), compressed)
	})
	if err != nil {
		return fmt.Errorf("ошибка записи сессии %s: %w", state.SessionID, err)
	}
	return nil
}

// Load загружает состояние сессии.
func (r *BadgerSessionRepo) Load(ctx context.Context, sessionID string) (SessionState, bool, error) {
	if sessionID == "" {
		return SessionState{}, false, fmt.Errorf("пустой sessionID")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.isReady {
		return SessionState{}, false, fmt.Errorf("хранилище не готово")
	}

	var compressed []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(sessionID))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return SessionState{}, false, nil
	}
	if err != nil {
		return SessionState{}, false, fmt.Errorf("ошибка чтения сессии %s: %w", sessionID, err)
	}

	data, err := r.dec.DecodeAll(compressed, nil)
	if err != nil {
		return SessionState{}, false, fmt.Errorf("распаковка сессии %s: %w", sessionID, err)
	}

	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return SessionState{}, false, fmt.Errorf("десериализация сессии %s: %w", sessionID, err)
	}
	return state, true, nil
}

// Delete удаляет сохранение сессии.
func (r *BadgerSessionRepo) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("пустой sessionID")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(sessionID))
	})
}

// Close закрывает хранилище.
func (r *BadgerSessionRepo) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isReady {
		return nil
	}
	r.isReady = false
	r.enc.Close()
	r.dec.Close()
	return r.db.Close()
}
