package world

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// worldMetrics содержит Prometheus-метрики ядра мира.
// Регистрация в глобальном регистре выполняется один раз на процесс,
// чтобы несколько экземпляров мира (в тестах) не конфликтовали.
type worldMetrics struct {
	regionLoads    prometheus.Counter
	regionUnloads  prometheus.Counter
	biomeChanges   prometheus.Counter
	weatherChanges prometheus.Counter
	transitionsUse prometheus.Counter
	loadedRegions  prometheus.Gauge
}

var (
	metricsOnce sync.Once
	metrics     *worldMetrics
)

// getMetrics возвращает общий набор метрик ядра мира
func getMetrics() *worldMetrics {
	metricsOnce.Do(func() {
		metrics = &worldMetrics{
			regionLoads: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "world",
				Name:      "region_loads_total",
				Help:      "Общее число загрузок ресурсов регионов.",
			}),
			regionUnloads: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "world",
				Name:      "region_unloads_total",
				Help:      "Общее число выгрузок ресурсов регионов.",
			}),
			biomeChanges: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "world",
				Name:      "biome_changes_total",
				Help:      "Общее число смен текущего биома.",
			}),
			weatherChanges: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "world",
				Name:      "weather_changes_total",
				Help:      "Общее число смен погоды.",
			}),
			transitionsUse: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "world",
				Name:      "transitions_used_total",
				Help:      "Общее число использований переходов.",
			}),
			loadedRegions: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "world",
				Name:      "loaded_regions",
				Help:      "Текущее количество загруженных регионов.",
			}),
		}

		prometheus.MustRegister(
			metrics.regionLoads,
			metrics.regionUnloads,
			metrics.biomeChanges,
			metrics.weatherChanges,
			metrics.transitionsUse,
			metrics.loadedRegions,
		)
	})
	return metrics
}
