package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/annel0/openworld/internal/logging"
	"github.com/annel0/openworld/internal/middleware"
	"github.com/annel0/openworld/internal/vec"
	"github.com/annel0/openworld/internal/world"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RegionInfo описывает регион в снапшоте мира
type RegionInfo struct {
	ID     string `json:"id"`
	Biome  string `json:"biome"`
	Tier   string `json:"tier"`
	Loaded bool   `json:"loaded"`
}

// TransitionInfo описывает переход со статусом разблокировки
type TransitionInfo struct {
	ID               string `json:"id"`
	FromBiome        string `json:"from_biome"`
	ToBiome          string `json:"to_biome"`
	RequiredFlag     string `json:"required_flag,omitempty"`
	RecommendedLevel int    `json:"recommended_level,omitempty"`
	Unlocked         bool   `json:"unlocked"`
}

// WorldSnapshot - состояние мира, зафиксированное после завершения тика.
// HTTP-обработчики читают только его: прямой доступ к миру из горутин
// gin нарушил бы однопоточную модель тика.
type WorldSnapshot struct {
	Tick            uint64           `json:"tick"`
	Biome           string           `json:"biome"`
	Weather         string           `json:"weather"`
	WeatherProgress float64          `json:"weather_progress"`
	AnchorX         float64          `json:"anchor_x"`
	AnchorY         float64          `json:"anchor_y"`
	Regions         []RegionInfo     `json:"regions"`
	Transitions     []TransitionInfo `json:"transitions"`
}

// RestServer отдаёт состояние мира для UI/рендера и принимает позицию якоря.
// Мутации мира (телепорт, флаги) ставятся в очередь команд и применяются
// циклом тика перед следующим Update.
type RestServer struct {
	router  *gin.Engine
	port    string
	metrics *ServerMetrics
	w       *world.World

	mu        sync.RWMutex
	snap      WorldSnapshot
	anchor    vec.Vec2
	hasAnchor bool

	commands chan func(*world.World)
}

// NewRestServer создает REST API сервер мира
func NewRestServer(port string, w *world.World) *RestServer {
	if port == "" {
		port = ":8088"
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(middleware.NewRequestLogger().Handler())
	router.Use(otelgin.Middleware("world_api"))

	promMw := middleware.NewPrometheusMiddleware("world_api")
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router)

	rs := &RestServer{
		router:   router,
		port:     port,
		metrics:  NewServerMetrics(),
		w:        w,
		commands: make(chan func(*world.World), 64),
	}

	rs.setupRoutes()
	return rs
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	rs.router.GET("/health", rs.handleHealth)

	api := rs.router.Group("/api")
	{
		worldGroup := api.Group("/world")
		{
			worldGroup.GET("/status", rs.handleStatus)
			worldGroup.GET("/regions", rs.handleRegions)
			worldGroup.GET("/transitions", rs.handleTransitions)
			worldGroup.GET("/travel", rs.handleTravel)
			worldGroup.POST("/anchor", rs.handleAnchor)
			worldGroup.POST("/teleport", rs.handleTeleport)
		}
		api.POST("/flags/:name", rs.handleUnlock)
	}
}

// Commands возвращает очередь отложенных мутаций мира.
// Цикл тика обязан дренировать её перед каждым Update.
func (rs *RestServer) Commands() <-chan func(*world.World) {
	return rs.commands
}

// PublishSnapshot фиксирует состояние мира после завершения тика
func (rs *RestServer) PublishSnapshot(snap WorldSnapshot) {
	rs.mu.Lock()
	rs.snap = snap
	rs.mu.Unlock()
}

// DesiredAnchor возвращает последнюю принятую позицию якоря
func (rs *RestServer) DesiredAnchor(fallback vec.Vec2) vec.Vec2 {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	if !rs.hasAnchor {
		return fallback
	}
	return rs.anchor
}

// Start запускает HTTP-сервер в отдельной горутине
func (rs *RestServer) Start() {
	go func() {
		logging.Info("🌐 World REST API запущен на %s", rs.port)
		if err := rs.router.Run(rs.port); err != nil {
			logging.Error("Ошибка REST сервера: %v", err)
		}
	}()
}

// handleHealth возвращает статус процесса
func (rs *RestServer) handleHealth(c *gin.Context) {
	cpu, _ := rs.metrics.GetCPUUsage()
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"uptime":      rs.metrics.GetUptime(),
		"memory_mb":   rs.metrics.GetMemoryUsage(),
		"cpu_percent": cpu,
	})
}

// handleStatus возвращает сводку последнего тика
func (rs *RestServer) handleStatus(c *gin.Context) {
	rs.mu.RLock()
	snap := rs.snap
	rs.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"tick":             snap.Tick,
		"biome":            snap.Biome,
		"weather":          snap.Weather,
		"weather_progress": snap.WeatherProgress,
		"anchor":           gin.H{"x": snap.AnchorX, "y": snap.AnchorY},
	})
}

// handleRegions возвращает регионы с уровнями симуляции
func (rs *RestServer) handleRegions(c *gin.Context) {
	rs.mu.RLock()
	regions := rs.snap.Regions
	rs.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{"regions": regions})
}

// handleTransitions возвращает переходы со статусом разблокировки
func (rs *RestServer) handleTransitions(c *gin.Context) {
	rs.mu.RLock()
	transitions := rs.snap.Transitions
	rs.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{"transitions": transitions})
}

// handleTravel ищет путь между биомами.
// Топология графа неизменяемая, стор флагов потокобезопасный,
// поэтому запрос не требует синхронизации с тиком.
func (rs *RestServer) handleTravel(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "параметры from и to обязательны"})
		return
	}

	path, ok := rs.w.TravelPath(from, to)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"reachable": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reachable": true, "path": path})
}

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// handleAnchor принимает позицию якоря от драйвера мира
func (rs *RestServer) handleAnchor(c *gin.Context) {
	var req pointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("неверное тело запроса: %v", err)})
		return
	}

	rs.mu.Lock()
	rs.anchor = vec.Vec2{X: req.X, Y: req.Y}
	rs.hasAnchor = true
	rs.mu.Unlock()

	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}

// handleTeleport ставит телепорт в очередь команд тика
func (rs *RestServer) handleTeleport(c *gin.Context) {
	var req pointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("неверное тело запроса: %v", err)})
		return
	}

	p := vec.Vec2{X: req.X, Y: req.Y}
	select {
	case rs.commands <- func(w *world.World) { w.TeleportTo(p) }:
		c.JSON(http.StatusAccepted, gin.H{"accepted": true})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "очередь команд заполнена"})
	}
}

// handleUnlock ставит установку флага в очередь команд тика
func (rs *RestServer) handleUnlock(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "имя флага обязательно"})
		return
	}

	select {
	case rs.commands <- func(w *world.World) { _ = w.Unlock(name) }:
		c.JSON(http.StatusAccepted, gin.H{"accepted": true})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "очередь команд заполнена"})
	}
}

// BuildSnapshot собирает снапшот мира. Вызывается только циклом тика
// после завершения Update.
func BuildSnapshot(w *world.World) WorldSnapshot {
	kind, progress := w.Weather()
	anchor := w.Anchor()

	snap := WorldSnapshot{
		Tick:            w.Tick(),
		Biome:           w.CurrentBiome(),
		Weather:         string(kind),
		WeatherProgress: progress,
		AnchorX:         anchor.X,
		AnchorY:         anchor.Y,
	}

	for _, r := range w.Regions().All() {
		snap.Regions = append(snap.Regions, RegionInfo{
			ID:     r.ID,
			Biome:  r.Biome,
			Tier:   w.Streaming().Tier(r.ID).String(),
			Loaded: r.Loaded(),
		})
	}

	for _, ts := range w.TransitionsStatus() {
		snap.Transitions = append(snap.Transitions, TransitionInfo{
			ID:               ts.Transition.ID,
			FromBiome:        ts.Transition.FromBiome,
			ToBiome:          ts.Transition.ToBiome,
			RequiredFlag:     ts.Transition.RequiredFlag,
			RecommendedLevel: ts.Transition.RecommendedLevel,
			Unlocked:         ts.Unlocked,
		})
	}

	return snap
}
