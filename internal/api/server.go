// Package api exposes the tracker over HTTP: batch CRUD, lifecycle
// operations, derived statistics, reference lists and the websocket
// event feed.
package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mushtrack/internal/models"
	"mushtrack/internal/monitoring"
	"mushtrack/internal/ws"
)

// Store is the persistence interface the API runs against.
type Store interface {
	ListBatches() ([]models.Batch, error)
	GetBatch(id string) (*models.Batch, error)
	CreateBatch(b *models.Batch) error
	SaveBatch(b *models.Batch) error
	DeleteBatch(id string) error

	ListVarieties() ([]models.Variety, error)
	CreateVariety(name, abbr string) (*models.Variety, error)
	DeleteVariety(name string) error

	ListSubstrates() ([]models.Substrate, error)
	CreateSubstrate(name string) (*models.Substrate, error)
	DeleteSubstrate(name string) error

	ListSuppliers() ([]models.Supplier, error)
	CreateSupplier(name string) (*models.Supplier, error)
	DeleteSupplier(name string) error

	ListUnitTypes() ([]models.UnitType, error)
	CreateUnitType(name string) (*models.UnitType, error)
	DeleteUnitType(name string) error
}

// Server is the HTTP front of the tracker.
type Server struct {
	Router *gin.Engine

	store        Store
	hub          *ws.Hub
	collector    *monitoring.Collector
	monitor      *monitoring.Monitor
	logger       *zap.Logger
	fyStartMonth int

	locks keyedMutex
}

// NewServer wires the router. fyStartMonth is the zero-indexed month
// the financial year starts on.
func NewServer(store Store, hub *ws.Hub, collector *monitoring.Collector, monitor *monitoring.Monitor, logger *zap.Logger, fyStartMonth int) *Server {
	s := &Server{
		Router:       gin.Default(),
		store:        store,
		hub:          hub,
		collector:    collector,
		monitor:      monitor,
		logger:       logger,
		fyStartMonth: fyStartMonth,
	}
	s.Router.Use(s.requestMetrics())
	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints.
func (s *Server) setupRoutes() {
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "mushtrack API is running"})
	})
	s.Router.GET("/ws", s.hub.Handler())

	v1 := s.Router.Group("/api/v1")
	{
		// Batch management
		v1.GET("/batches", s.ListBatches)
		v1.GET("/batches/:id", s.GetBatch)
		v1.POST("/batches", s.CreateBatch)
		v1.PATCH("/batches/:id", s.UpdateBatch)
		v1.DELETE("/batches/:id", s.DeleteBatch)

		// Lifecycle operations
		v1.POST("/batches/:id/move", s.MoveBatch)
		v1.POST("/batches/:id/split", s.SplitBatch)
		v1.POST("/batches/:id/colonised", s.SetColonisationComplete)
		v1.POST("/batches/:id/contamination", s.UpdateContamination)
		v1.POST("/batches/:id/harvests", s.LogHarvest)
		v1.DELETE("/batches/:id/harvests/:index", s.RemoveHarvestEntry)

		// Dashboard statistics
		v1.GET("/stats/overview", s.StatsOverview)
		v1.GET("/stats/summary", s.StatsSummary)
		v1.GET("/stats/monthly", s.StatsMonthly)
		v1.GET("/stats/financial-years", s.StatsFinancialYears)

		// Reference lists
		v1.GET("/varieties", s.ListVarieties)
		v1.POST("/varieties", s.CreateVariety)
		v1.DELETE("/varieties/:name", s.DeleteVariety)
		v1.GET("/substrates", s.ListSubstrates)
		v1.POST("/substrates", s.CreateSubstrate)
		v1.DELETE("/substrates/:name", s.DeleteSubstrate)
		v1.GET("/suppliers", s.ListSuppliers)
		v1.POST("/suppliers", s.CreateSupplier)
		v1.DELETE("/suppliers/:name", s.DeleteSupplier)
		v1.GET("/unit-types", s.ListUnitTypes)
		v1.POST("/unit-types", s.CreateUnitType)
		v1.DELETE("/unit-types/:name", s.DeleteUnitType)

		// Activity snapshot
		v1.GET("/status", s.Status)
	}
}

// Status reports the live activity snapshot.
func (s *Server) Status(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.GetMetrics())
}

func (s *Server) requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		s.collector.RecordRequest(c.Request.Method, path, c.Writer.Status())
	}
}

// keyedMutex serializes lifecycle operations per batch id. Two writes
// to the same batch never race; writes to different batches proceed in
// parallel.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(id string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[id]
	if !ok {
		l = &sync.Mutex{}
		k.locks[id] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
