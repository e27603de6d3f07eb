package monitoring

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the prometheus registry and the tracker's collectors.
type Collector struct {
	registry *prometheus.Registry

	batchesCreated    *prometheus.CounterVec
	stageMoves        *prometheus.CounterVec
	harvestWeight     *prometheus.CounterVec
	contaminatedUnits prometheus.Gauge
	apiRequests       *prometheus.CounterVec
}

// NewCollector creates and registers the tracker's metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		batchesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mushtrack_batches_created_total",
				Help: "Batches created, by variety",
			},
			[]string{"variety"},
		),
		stageMoves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mushtrack_stage_moves_total",
				Help: "Stage transitions applied",
			},
			[]string{"from", "to"},
		),
		harvestWeight: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mushtrack_harvest_weight_kg_total",
				Help: "Harvest weight logged, by variety",
			},
			[]string{"variety"},
		),
		contaminatedUnits: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mushtrack_contaminated_units",
				Help: "Contaminated units across all batches",
			},
		),
		apiRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mushtrack_api_requests_total",
				Help: "API requests served",
			},
			[]string{"method", "path", "status"},
		),
	}

	c.registry.MustRegister(
		c.batchesCreated,
		c.stageMoves,
		c.harvestWeight,
		c.contaminatedUnits,
		c.apiRequests,
	)
	return c
}

// Registry returns the registry for the promhttp handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordBatchCreated counts a new batch.
func (c *Collector) RecordBatchCreated(variety string) {
	c.batchesCreated.WithLabelValues(variety).Inc()
}

// RecordStageMove counts an applied stage transition.
func (c *Collector) RecordStageMove(from, to string) {
	c.stageMoves.WithLabelValues(from, to).Inc()
}

// RecordHarvest counts logged harvest weight.
func (c *Collector) RecordHarvest(variety string, kg float64) {
	c.harvestWeight.WithLabelValues(variety).Add(kg)
}

// SetContaminatedUnits updates the fleet-wide contamination gauge.
func (c *Collector) SetContaminatedUnits(units int) {
	c.contaminatedUnits.Set(float64(units))
}

// RecordRequest counts one served API request.
func (c *Collector) RecordRequest(method, path string, status int) {
	c.apiRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
