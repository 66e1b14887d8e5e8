package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	aggregatedomain "github.com/lostfits/lostfits/internal/aggregate/domain"
)

func (s *Server) ListPopularFits(c *gin.Context) {
	var q aggregatedomain.PopularQuery

	if v := c.Query("ship_type_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			AbortWithError(c, newValidationError("ship_type_id", "invalid_ship_type_id", "invalid ship type id"))
			return
		}
		q.ShipTypeID = id
	}
	if v := c.Query("since"); v != "" {
		ts, err := parseDateOrTime(v)
		if err != nil {
			AbortWithError(c, newValidationError("since", "invalid_since", "expected RFC3339 or YYYY-MM-DD"))
			return
		}
		q.Since = ts
	}
	if v := c.Query("until"); v != "" {
		ts, err := parseDateOrTime(v)
		if err != nil {
			AbortWithError(c, newValidationError("until", "invalid_until", "expected RFC3339 or YYYY-MM-DD"))
			return
		}
		q.Until = ts
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
			return
		}
		q.Limit = limit
	}

	fits, err := s.aggregateSvc.PopularFits(c.Request.Context(), q)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": fits})
}
