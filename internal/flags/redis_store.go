package flags

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore хранит флаги в Redis-множестве для разделения между процессами.
// Ошибки чтения трактуются как "флаг не установлен": переход остаётся
// закрытым, что безопаснее ложной разблокировки.
type RedisStore struct {
	client *redis.Client
	key    string
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr     string // Адрес Redis сервера
	Password string // Пароль (пустой если не требуется)
	DB       int    // Номер базы данных
	Key      string // Ключ множества флагов
}

// DefaultRedisConfig возвращает конфигурацию по умолчанию
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr: "localhost:6379",
		Key:  "world:flags",
	}
}

// NewRedisStore подключается к Redis и создаёт стор флагов
func NewRedisStore(cfg *RedisConfig) (*RedisStore, error) {
	if cfg == nil {
		cfg = DefaultRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("подключение к Redis: %w", err)
	}

	return &RedisStore{client: client, key: cfg.Key}, nil
}

// Has сообщает, установлен ли флаг
func (s *RedisStore) Has(name string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ok, err := s.client.SIsMember(ctx, s.key, name).Result()
	if err != nil {
		return false
	}
	return ok
}

// Set устанавливает флаг
func (s *RedisStore) Set(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.client.SAdd(ctx, s.key, name).Err(); err != nil {
		return fmt.Errorf("запись флага %q: %w", name, err)
	}
	return nil
}

// Names возвращает все установленные флаги
func (s *RedisStore) Names() []string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	names, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil
	}
	return names
}

// Close закрывает подключение к Redis
func (s *RedisStore) Close() error {
	return s.client.Close()
}
