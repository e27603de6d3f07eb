package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mushtrack/internal/stats"
)

// StatsOverview returns the full dashboard payload: all-time figures,
// the standard trailing windows and the weekly harvest rollup.
func (s *Server) StatsOverview(c *gin.Context) {
	batches, err := s.store.ListBatches()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats.BuildOverview(batches, time.Now()))
}

// StatsSummary returns one aggregate summary for a selected subset:
// ?days=N for a trailing window, ?fy=FY24/25 for a financial year,
// ?month=2024-05 for a calendar month, no filter for all batches.
func (s *Server) StatsSummary(c *gin.Context) {
	batches, err := s.store.ListBatches()
	if err != nil {
		s.respondError(c, err)
		return
	}

	switch {
	case c.Query("days") != "":
		days, err := strconv.Atoi(c.Query("days"))
		if err != nil || days <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		batches = stats.FilterWindow(batches, time.Now(), days)
	case c.Query("fy") != "":
		batches = stats.GroupByFinancialYear(batches, s.fyStartMonth)[c.Query("fy")]
	case c.Query("month") != "":
		batches = stats.GroupByMonth(batches)[c.Query("month")]
	}

	c.JSON(http.StatusOK, stats.Summarize(batches))
}

// StatsMonthly returns per-month summaries, optionally restricted to
// one calendar year via ?year=YYYY.
func (s *Server) StatsMonthly(c *gin.Context) {
	batches, err := s.store.ListBatches()
	if err != nil {
		s.respondError(c, err)
		return
	}
	year := c.Query("year")
	if year != "" && len(year) != 4 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be YYYY"})
		return
	}
	c.JSON(http.StatusOK, stats.MonthlySummaries(batches, year))
}

// StatsFinancialYears returns per-financial-year summaries, most
// recent first.
func (s *Server) StatsFinancialYears(c *gin.Context) {
	batches, err := s.store.ListBatches()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats.FinancialYearSummaries(batches, s.fyStartMonth))
}
