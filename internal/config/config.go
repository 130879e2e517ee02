package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.

type Config struct {
	World     WorldConfig     `yaml:"world"`
	Streaming StreamingConfig `yaml:"streaming"`
	Weather   WeatherConfig   `yaml:"weather"`
	Encounter EncounterConfig `yaml:"encounter"`
	Server    ServerConfig    `yaml:"server"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Storage   StorageConfig   `yaml:"storage"`
}

// WorldConfig описывает мир: сид генерации и путь к таблице биомов
type WorldConfig struct {
	Seed       int64  `yaml:"seed"`
	BiomesPath string `yaml:"biomes_path"`
	TickRate   int    `yaml:"tick_rate"` // тиков в секунду
}

// StreamingConfig задаёт радиусы симуляции (Active < Adjacent < Load < Unload)
type StreamingConfig struct {
	ActiveRadius   float64 `yaml:"active_radius"`
	AdjacentRadius float64 `yaml:"adjacent_radius"`
	LoadRadius     float64 `yaml:"load_radius"`
	UnloadRadius   float64 `yaml:"unload_radius"`
}

// WeatherConfig задаёт параметры погодного автомата
type WeatherConfig struct {
	StartProbability float64 `yaml:"start_probability"`
	MinDuration      float64 `yaml:"min_duration"`
	MaxDuration      float64 `yaml:"max_duration"`
	MinCalmDuration  float64 `yaml:"min_calm_duration"`
	MaxCalmDuration  float64 `yaml:"max_calm_duration"`
	RampDuration     float64 `yaml:"ramp_duration"`
}

// EncounterConfig задаёт параметры размещения энкаунтеров
type EncounterConfig struct {
	BaseCount       int     `yaml:"base_count"`
	EdgeMargin      float64 `yaml:"edge_margin"`
	RareProbability float64 `yaml:"rare_probability"`
}

// ServerConfig порты REST API и метрик
type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

// EventBusConfig настройки внешней шины событий (NATS JetStream)
type EventBusConfig struct {
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
}

// StorageConfig настройки сохранения сессии и стора флагов
type StorageConfig struct {
	SessionBackend string `yaml:"session_backend"` // memory | maria | badger
	FlagBackend    string `yaml:"flag_backend"`    // memory | redis
	MariaDSN       string `yaml:"maria_dsn"`
	RedisAddr      string `yaml:"redis_addr"`
	BadgerPath     string `yaml:"badger_path"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:       1,
			BiomesPath: "configs/biomes.yml",
			TickRate:   20,
		},
		Streaming: StreamingConfig{
			ActiveRadius:   800,
			AdjacentRadius: 1600,
			LoadRadius:     2400,
			UnloadRadius:   3200,
		},
		Weather: WeatherConfig{
			StartProbability: 0.3,
			MinDuration:      30,
			MaxDuration:      90,
			MinCalmDuration:  60,
			MaxCalmDuration:  180,
			RampDuration:     5,
		},
		Encounter: EncounterConfig{
			BaseCount:       6,
			EdgeMargin:      32,
			RareProbability: 0.1,
		},
		Server: ServerConfig{
			RESTPort:    8088,
			MetricsPort: 2112,
		},
		EventBus: EventBusConfig{
			Stream: "WORLD",
		},
		Storage: StorageConfig{
			SessionBackend: "memory",
			FlagBackend:    "memory",
			BadgerPath:     "data/session",
		},
	}
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "WORLD_REST_PORT", 8088)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "WORLD_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV WORLD_CONFIG или возвращает дефолты.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("WORLD_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
