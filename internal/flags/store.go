// Package flags реализует стор булевых флагов прогресса.
// Флаги открывают переходы между биомами; ядро мира только читает их
// через Has, запись выполняется явной операцией разблокировки.
package flags

import "sync"

// Store определяет интерфейс стора флагов
type Store interface {
	// Has сообщает, установлен ли флаг
	Has(name string) bool
	// Set устанавливает флаг
	Set(name string) error
	// Names возвращает все установленные флаги (для сохранения сессии)
	Names() []string
}

// MemoryStore хранит флаги в памяти процесса
type MemoryStore struct {
	mu    sync.RWMutex
	flags map[string]struct{}
}

// NewMemoryStore создаёт пустой стор флагов в памяти
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flags: make(map[string]struct{})}
}

// Has сообщает, установлен ли флаг
func (s *MemoryStore) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.flags[name]
	return ok
}

// Set устанавливает флаг
func (s *MemoryStore) Set(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[name] = struct{}{}
	return nil
}

// Names возвращает все установленные флаги
func (s *MemoryStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.flags))
	for name := range s.flags {
		out = append(out, name)
	}
	return out
}
