package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mushtrack/internal/lifecycle"
	"mushtrack/internal/models"
	"mushtrack/internal/ws"
)

// createBatchRequest carries the operator input for a new batch.
// Dates cross the wire as plain YYYY-MM-DD strings.
type createBatchRequest struct {
	Variety         string  `json:"variety"`
	InoculationDate string  `json:"inoculation_date"`
	NumUnits        int     `json:"num_units"`
	UnitType        string  `json:"unit_type"`
	UnitWeight      float64 `json:"unit_weight"`
	SubstrateRecipe string  `json:"substrate_recipe"`
	SpawnSupplier   string  `json:"spawn_supplier"`
	ColumnID        string  `json:"column_id"`
	Notes           string  `json:"notes"`
}

// ListBatches returns every batch, newest first.
func (s *Server) ListBatches(c *gin.Context) {
	batches, err := s.store.ListBatches()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, batches)
}

// GetBatch returns one batch by id.
func (s *Server) GetBatch(c *gin.Context) {
	batch, err := s.store.GetBatch(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

// CreateBatch validates the input through the lifecycle rules and
// persists the new batch. Creation lands batches in incubation.
func (s *Server) CreateBatch(c *gin.Context) {
	var req createBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	batch, err := lifecycle.NewBatch(lifecycle.CreateInput{
		Variety:         req.Variety,
		VarietyAbbr:     s.varietyAbbr(req.Variety),
		InoculationDate: req.InoculationDate,
		NumUnits:        req.NumUnits,
		UnitType:        req.UnitType,
		UnitWeight:      req.UnitWeight,
		SubstrateRecipe: req.SubstrateRecipe,
		SpawnSupplier:   req.SpawnSupplier,
		ColumnID:        req.ColumnID,
		Notes:           req.Notes,
	}, models.Today())
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.store.CreateBatch(batch); err != nil {
		s.respondError(c, err)
		return
	}

	s.collector.RecordBatchCreated(batch.Variety)
	s.monitor.RecordOperation("batch_created", batch.ID)
	s.hub.Broadcast(ws.Event{Type: "batch_created", BatchID: batch.ID, Stage: string(batch.Stage), Label: batch.BatchLabel})
	s.logger.Info("batch created",
		zap.String("id", batch.ID),
		zap.String("label", batch.BatchLabel),
		zap.String("variety", batch.Variety))
	c.JSON(http.StatusCreated, batch)
}

// updateBatchRequest holds the patchable presentation fields. Lifecycle
// fields move through the dedicated operation endpoints.
type updateBatchRequest struct {
	Notes    *string `json:"notes"`
	ColumnID *string `json:"column_id"`
}

// UpdateBatch patches notes and the UI grouping column.
func (s *Server) UpdateBatch(c *gin.Context) {
	id := c.Param("id")
	var req updateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unlock := s.locks.lock(id)
	defer unlock()

	batch, err := s.store.GetBatch(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if req.Notes != nil {
		batch.Notes = *req.Notes
	}
	if req.ColumnID != nil {
		batch.ColumnID = *req.ColumnID
	}
	if err := s.store.SaveBatch(batch); err != nil {
		s.respondError(c, err)
		return
	}

	s.hub.Broadcast(ws.Event{Type: "batch_updated", BatchID: batch.ID, Stage: string(batch.Stage), Label: batch.BatchLabel})
	c.JSON(http.StatusOK, batch)
}

// DeleteBatch removes a batch unconditionally. Children of a deleted
// parent keep their dangling lineage reference.
func (s *Server) DeleteBatch(c *gin.Context) {
	id := c.Param("id")

	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.store.DeleteBatch(id); err != nil {
		s.respondError(c, err)
		return
	}

	s.monitor.RecordOperation("batch_deleted", id)
	s.hub.Broadcast(ws.Event{Type: "batch_deleted", BatchID: id})
	c.Status(http.StatusNoContent)
}

type moveBatchRequest struct {
	Stage models.Stage `json:"stage"`
}

// MoveBatch applies a stage transition.
func (s *Server) MoveBatch(c *gin.Context) {
	id := c.Param("id")
	var req moveBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unlock := s.locks.lock(id)
	defer unlock()

	batch, err := s.store.GetBatch(id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	from := batch.Stage
	if err := lifecycle.MoveStage(batch, req.Stage, models.Today()); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.store.SaveBatch(batch); err != nil {
		s.respondError(c, err)
		return
	}

	s.collector.RecordStageMove(string(from), string(batch.Stage))
	s.monitor.RecordOperation("stage_move", batch.ID)
	s.hub.Broadcast(ws.Event{Type: "batch_moved", BatchID: batch.ID, Stage: string(batch.Stage), Label: batch.BatchLabel})
	s.logger.Info("batch moved",
		zap.String("id", batch.ID),
		zap.String("from", string(from)),
		zap.String("to", string(batch.Stage)))
	c.JSON(http.StatusOK, batch)
}

type splitBatchRequest struct {
	Quantity         int    `json:"quantity"`
	ColonisationDate string `json:"colonisation_date"`
	Notes            string `json:"notes"`
}

// SplitBatch moves part of an incubating batch straight to the grow
// room as a new child batch.
func (s *Server) SplitBatch(c *gin.Context) {
	id := c.Param("id")
	var req splitBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	colonised, err := models.ParseLocalDate(req.ColonisationDate)
	if err != nil {
		s.respondError(c, &lifecycle.ValidationError{Msg: "colonisation date: " + err.Error()})
		return
	}

	unlock := s.locks.lock(id)
	defer unlock()

	parent, err := s.store.GetBatch(id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	child, err := lifecycle.Split(parent, req.Quantity, colonised, req.Notes, models.Today())
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.store.SaveBatch(parent); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.store.CreateBatch(child); err != nil {
		s.respondError(c, err)
		return
	}

	s.collector.RecordBatchCreated(child.Variety)
	s.monitor.RecordOperation("batch_split", parent.ID)
	s.hub.Broadcast(ws.Event{Type: "batch_updated", BatchID: parent.ID, Stage: string(parent.Stage), Label: parent.BatchLabel})
	s.hub.Broadcast(ws.Event{Type: "batch_created", BatchID: child.ID, Stage: string(child.Stage), Label: child.BatchLabel})
	s.logger.Info("batch split",
		zap.String("parent", parent.ID),
		zap.String("child", child.ID),
		zap.Int("quantity", req.Quantity))
	c.JSON(http.StatusCreated, gin.H{"parent": parent, "child": child})
}

type colonisedRequest struct {
	Date string `json:"date"`
}

// SetColonisationComplete records the incubation completion date.
func (s *Server) SetColonisationComplete(c *gin.Context) {
	id := c.Param("id")
	var req colonisedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := models.ParseLocalDate(req.Date)
	if err != nil {
		s.respondError(c, &lifecycle.ValidationError{Msg: "colonisation date: " + err.Error()})
		return
	}

	unlock := s.locks.lock(id)
	defer unlock()

	batch, err := s.store.GetBatch(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := lifecycle.SetColonisationComplete(batch, date); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.store.SaveBatch(batch); err != nil {
		s.respondError(c, err)
		return
	}

	s.monitor.RecordOperation("colonisation_complete", batch.ID)
	s.hub.Broadcast(ws.Event{Type: "batch_updated", BatchID: batch.ID, Stage: string(batch.Stage), Label: batch.BatchLabel})
	c.JSON(http.StatusOK, batch)
}

// contaminationRequest sets an absolute count or steps by one.
type contaminationRequest struct {
	Count  *int   `json:"count"`
	Action string `json:"action"` // "increment" or "decrement" when Count is absent
}

// UpdateContamination updates the contaminated-unit count, clamped into
// [0, num_units].
func (s *Server) UpdateContamination(c *gin.Context) {
	id := c.Param("id")
	var req contaminationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unlock := s.locks.lock(id)
	defer unlock()

	batch, err := s.store.GetBatch(id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	switch {
	case req.Count != nil:
		lifecycle.UpdateContamination(batch, *req.Count)
	case req.Action == "increment":
		lifecycle.IncrementContamination(batch)
	case req.Action == "decrement":
		lifecycle.DecrementContamination(batch)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "either count or action is required"})
		return
	}

	if err := s.store.SaveBatch(batch); err != nil {
		s.respondError(c, err)
		return
	}

	s.refreshContaminationGauge()
	s.hub.Broadcast(ws.Event{Type: "batch_updated", BatchID: batch.ID, Stage: string(batch.Stage), Label: batch.BatchLabel})
	c.JSON(http.StatusOK, batch)
}

type logHarvestRequest struct {
	Weights []float64 `json:"weights"`
}

// LogHarvest appends today's weigh-ins to a batch. All-or-nothing: a
// single bad weight rejects the whole list.
func (s *Server) LogHarvest(c *gin.Context) {
	id := c.Param("id")
	var req logHarvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Weights) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one weight is required"})
		return
	}

	unlock := s.locks.lock(id)
	defer unlock()

	batch, err := s.store.GetBatch(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := lifecycle.LogHarvest(batch, req.Weights, models.Today()); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.store.SaveBatch(batch); err != nil {
		s.respondError(c, err)
		return
	}

	var total float64
	for _, w := range req.Weights {
		total += w
	}
	s.collector.RecordHarvest(batch.Variety, total)
	s.monitor.RecordOperation("harvest_logged", batch.ID)
	s.hub.Broadcast(ws.Event{Type: "batch_updated", BatchID: batch.ID, Stage: string(batch.Stage), Label: batch.BatchLabel})
	c.JSON(http.StatusOK, batch)
}

// RemoveHarvestEntry deletes one harvest entry by position.
func (s *Server) RemoveHarvestEntry(c *gin.Context) {
	id := c.Param("id")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "harvest index must be an integer"})
		return
	}

	unlock := s.locks.lock(id)
	defer unlock()

	batch, err := s.store.GetBatch(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := lifecycle.RemoveHarvestEntry(batch, index); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.store.SaveBatch(batch); err != nil {
		s.respondError(c, err)
		return
	}

	s.hub.Broadcast(ws.Event{Type: "batch_updated", BatchID: batch.ID, Stage: string(batch.Stage), Label: batch.BatchLabel})
	c.JSON(http.StatusOK, batch)
}

// varietyAbbr looks up the stored short code for a variety name.
func (s *Server) varietyAbbr(name string) string {
	varieties, err := s.store.ListVarieties()
	if err != nil {
		s.logger.Warn("variety lookup failed", zap.Error(err))
		return ""
	}
	for _, v := range varieties {
		if v.Name == name {
			return v.Abbr
		}
	}
	return ""
}

// refreshContaminationGauge recomputes the fleet-wide contamination
// gauge from the current batch set.
func (s *Server) refreshContaminationGauge() {
	batches, err := s.store.ListBatches()
	if err != nil {
		s.logger.Warn("contamination gauge refresh failed", zap.Error(err))
		return
	}
	total := 0
	for i := range batches {
		total += batches[i].ContaminatedUnits
	}
	s.collector.SetContaminatedUnits(total)
}
