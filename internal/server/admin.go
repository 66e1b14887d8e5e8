package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RunIngest pulls one package from the feed on demand.
func (s *Server) RunIngest(c *gin.Context) {
	result, err := s.killmailSvc.IngestOne(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// RunSeed backfills item types referenced by stored killmails.
func (s *Server) RunSeed(c *gin.Context) {
	report, err := s.itemTypeSvc.SeedFromKillmails(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

// RunAggregate recomputes daily buckets: one day (?date=), a window
// (?start=&end=), or everything stored (?all=true).
func (s *Server) RunAggregate(c *gin.Context) {
	switch {
	case c.Query("date") != "":
		date, err := parseDateOrTime(c.Query("date"))
		if err != nil {
			AbortWithError(c, newValidationError("date", "invalid_date", "expected YYYY-MM-DD"))
			return
		}
		groups, err := s.aggregateSvc.AggregateDate(c.Request.Context(), date)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"days_processed": 1, "groups_written": groups}})

	case c.Query("start") != "" && c.Query("end") != "":
		start, err := parseDateOrTime(c.Query("start"))
		if err != nil {
			AbortWithError(c, newValidationError("start", "invalid_start", "expected YYYY-MM-DD"))
			return
		}
		end, err := parseDateOrTime(c.Query("end"))
		if err != nil {
			AbortWithError(c, newValidationError("end", "invalid_end", "expected YYYY-MM-DD"))
			return
		}
		report, err := s.aggregateSvc.AggregateRange(c.Request.Context(), start, end)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": report})

	case strings.EqualFold(c.Query("all"), "true"):
		report, err := s.aggregateSvc.AggregateAll(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": report})

	default:
		AbortWithError(c, newValidationError("request", "invalid_request", "expected date, start+end, or all=true"))
	}
}

// InvalidateCache deletes cached reference data matching a wildcard pattern.
func (s *Server) InvalidateCache(c *gin.Context) {
	pattern := strings.TrimSpace(c.Query("pattern"))
	if pattern == "" {
		AbortWithError(c, newValidationError("pattern", "invalid_pattern", "pattern is required"))
		return
	}

	deleted, err := s.cache.Invalidate(c.Request.Context(), pattern)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": deleted}})
}
