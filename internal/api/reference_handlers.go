package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createReferenceRequest struct {
	Name string `json:"name" binding:"required"`
	Abbr string `json:"abbr"` // varieties only
}

func (s *Server) ListVarieties(c *gin.Context) {
	varieties, err := s.store.ListVarieties()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, varieties)
}

func (s *Server) CreateVariety(c *gin.Context) {
	var req createReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := s.store.CreateVariety(req.Name, req.Abbr)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// DeleteVariety removes a variety unless a non-retired batch still
// references it.
func (s *Server) DeleteVariety(c *gin.Context) {
	if err := s.store.DeleteVariety(c.Param("name")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListSubstrates(c *gin.Context) {
	substrates, err := s.store.ListSubstrates()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, substrates)
}

func (s *Server) CreateSubstrate(c *gin.Context) {
	var req createReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub, err := s.store.CreateSubstrate(req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (s *Server) DeleteSubstrate(c *gin.Context) {
	if err := s.store.DeleteSubstrate(c.Param("name")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListSuppliers(c *gin.Context) {
	suppliers, err := s.store.ListSuppliers()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func (s *Server) CreateSupplier(c *gin.Context) {
	var req createReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sup, err := s.store.CreateSupplier(req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sup)
}

func (s *Server) DeleteSupplier(c *gin.Context) {
	if err := s.store.DeleteSupplier(c.Param("name")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListUnitTypes(c *gin.Context) {
	unitTypes, err := s.store.ListUnitTypes()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, unitTypes)
}

func (s *Server) CreateUnitType(c *gin.Context) {
	var req createReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := s.store.CreateUnitType(req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (s *Server) DeleteUnitType(c *gin.Context) {
	if err := s.store.DeleteUnitType(c.Param("name")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
