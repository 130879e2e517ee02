package flags

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	assert.False(t, s.Has("vault_key"), "новый стор пуст")
	assert.Empty(t, s.Names())

	require.NoError(t, s.Set("vault_key"))
	assert.True(t, s.Has("vault_key"))

	// Повторная установка идемпотентна
	require.NoError(t, s.Set("vault_key"))
	require.NoError(t, s.Set("bridge_repaired"))

	names := s.Names()
	assert.Len(t, names, 2)
	assert.Contains(t, names, "vault_key")
	assert.Contains(t, names, "bridge_repaired")
}

func TestMemoryStoreConcurrent(t *testing.T) {
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Set("shared")
		}()
		go func() {
			defer wg.Done()
			_ = s.Has("shared")
		}()
	}
	wg.Wait()

	assert.True(t, s.Has("shared"))
}
