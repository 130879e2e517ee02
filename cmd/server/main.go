package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/openworld/internal/api"
	"github.com/annel0/openworld/internal/biome"
	"github.com/annel0/openworld/internal/config"
	"github.com/annel0/openworld/internal/eventbus"
	"github.com/annel0/openworld/internal/flags"
	"github.com/annel0/openworld/internal/logging"
	"github.com/annel0/openworld/internal/observability"
	"github.com/annel0/openworld/internal/storage"
	"github.com/annel0/openworld/internal/world"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации")
	sessionID := flag.String("session", "default", "идентификатор сессии мира")
	flag.Parse()

	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("🌍 Запуск OpenWorld сервера...")

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("❌ Ошибка загрузки конфигурации: %v", err)
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	restAddr := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	metricsAddr := fmt.Sprintf(":%d", cfg.Server.GetMetricsPort())
	logging.Info("📡 Конфигурация: REST=%s, metrics=%s, сид=%d", restAddr, metricsAddr, cfg.World.Seed)

	// === ТЕЛЕМЕТРИЯ ===
	ctx := context.Background()
	shutdownTelemetry, err := observability.InitTelemetry(ctx, "openworld")
	if err != nil {
		// Телеметрия опциональна: без OTLP-коллектора просто работаем дальше
		logging.Warn("OpenTelemetry не инициализирован: %v", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}
	defer shutdownTelemetry(ctx)

	// === ТАБЛИЦА БИОМОВ И РАСКЛАДКА ===
	layout, err := biome.LoadLayout(cfg.World.BiomesPath)
	if err != nil {
		logging.Error("❌ Ошибка загрузки таблицы биомов: %v", err)
		log.Fatalf("❌ Ошибка загрузки таблицы биомов: %v", err)
	}

	// === СТОР ФЛАГОВ ===
	var flagStore flags.Store
	switch cfg.Storage.FlagBackend {
	case "redis":
		redisCfg := flags.DefaultRedisConfig()
		if cfg.Storage.RedisAddr != "" {
			redisCfg.Addr = cfg.Storage.RedisAddr
		}
		store, err := flags.NewRedisStore(redisCfg)
		if err != nil {
			logging.Warn("Redis недоступен (%v), используется стор флагов в памяти", err)
			flagStore = flags.NewMemoryStore()
		} else {
			defer store.Close()
			flagStore = store
		}
	default:
		flagStore = flags.NewMemoryStore()
	}

	// === РЕПОЗИТОРИЙ СЕССИЙ ===
	var sessionRepo storage.SessionRepo
	switch cfg.Storage.SessionBackend {
	case "maria":
		repo, err := storage.NewMariaSessionRepo(cfg.Storage.MariaDSN)
		if err != nil {
			logging.Warn("MariaDB недоступна (%v), сессии хранятся в памяти", err)
			sessionRepo = storage.NewMemorySessionRepo()
		} else {
			sessionRepo = repo
		}
	case "badger":
		repo, err := storage.NewBadgerSessionRepo(cfg.Storage.BadgerPath)
		if err != nil {
			logging.Warn("BadgerDB недоступна (%v), сессии хранятся в памяти", err)
			sessionRepo = storage.NewMemorySessionRepo()
		} else {
			sessionRepo = repo
		}
	default:
		sessionRepo = storage.NewMemorySessionRepo()
	}
	defer sessionRepo.Close()

	// === МИР ===
	w, err := world.NewWorld(cfg, layout, flagStore, nil)
	if err != nil {
		logging.Error("❌ Ошибка построения мира: %v", err)
		log.Fatalf("❌ Ошибка построения мира: %v", err)
	}

	// Восстанавливаем минимальное состояние сессии: биом и позицию якоря.
	// Уровни симуляции и погода пересчитаются первым тиком.
	if state, ok, err := sessionRepo.Load(ctx, *sessionID); err != nil {
		logging.Warn("Ошибка загрузки сессии %s: %v", *sessionID, err)
	} else if ok {
		w.Restore(state.Biome, state.Position)
		logging.Info("💾 Сессия %s восстановлена: биом %s, позиция (%.0f, %.0f)",
			*sessionID, state.Biome, state.Position.X, state.Position.Y)
	}

	// === ШИНА СОБЫТИЙ ===
	var bus eventbus.EventBus
	if cfg.EventBus.URL != "" {
		retention := time.Duration(cfg.EventBus.Retention) * time.Hour
		jsBus, err := eventbus.NewJetStreamBus(cfg.EventBus.URL, cfg.EventBus.Stream, retention)
		if err != nil {
			logging.Warn("NATS недоступен (%v), используется шина в памяти", err)
			bus = eventbus.NewMemoryBus(1024)
		} else {
			defer jsBus.Close()
			bus = jsBus
		}
	} else {
		bus = eventbus.NewMemoryBus(1024)
	}

	world.NewBusBridge(w, bus, "openworld")
	if err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("LoggingListener не запущен: %v", err)
	}

	busMetrics := eventbus.NewMetricsExporter(bus)
	busMetrics.StartHTTP(metricsAddr)
	defer busMetrics.Stop()

	// === REST API ===
	restServer := api.NewRestServer(restAddr, w)
	restServer.Start()

	logging.Info("✅ Все сервисы запущены")
	logging.Info("   🌐 REST API: http://localhost%s", restAddr)
	logging.Info("   📈 Метрики: http://localhost%s/metrics", metricsAddr)

	// === ЦИКЛ ТИКА ===
	tickRate := cfg.World.TickRate
	if tickRate <= 0 {
		tickRate = 20
	}
	dt := 1.0 / float64(tickRate)

	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	saveTicker := time.NewTicker(30 * time.Second)
	defer saveTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	saveSession := func() {
		state := storage.SessionState{
			SessionID: *sessionID,
			Biome:     w.CurrentBiome(),
			Position:  w.Anchor(),
			SavedAt:   time.Now().UTC(),
		}
		if err := sessionRepo.Save(ctx, state); err != nil {
			logging.Warn("Ошибка сохранения сессии: %v", err)
		}
	}

	for {
		select {
		case <-ticker.C:
			// Отложенные мутации применяются строго до Update
			drain(restServer, w)
			anchor := restServer.DesiredAnchor(w.Anchor())
			w.Update(anchor, dt)
			restServer.PublishSnapshot(api.BuildSnapshot(w))

		case <-saveTicker.C:
			saveSession()

		case sig := <-sigCh:
			logging.Info("📡 Получен сигнал %v, завершение работы...", sig)
			saveSession()
			return
		}
	}
}

// drain применяет накопленные команды REST API к миру
func drain(rs *api.RestServer, w *world.World) {
	for {
		select {
		case cmd := <-rs.Commands():
			cmd(w)
		default:
			return
		}
	}
}
