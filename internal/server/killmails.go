package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	killmaildomain "github.com/lostfits/lostfits/internal/killmail/domain"
)

func (s *Server) ListKillmails(c *gin.Context) {
	filter, err := parseKillmailFilter(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	killmails, err := s.killmailSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": killmails})
}

func (s *Server) GetKillmail(c *gin.Context) {
	killmailID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || killmailID <= 0 {
		AbortWithError(c, newValidationError("id", "invalid_killmail_id", "invalid killmail id"))
		return
	}

	killmail, err := s.killmailSvc.Get(c.Request.Context(), killmailID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if killmail == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": killmail})
}

func (s *Server) GetItemType(c *gin.Context) {
	typeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || typeID <= 0 {
		AbortWithError(c, newValidationError("id", "invalid_type_id", "invalid type id"))
		return
	}

	record, err := s.itemTypeSvc.Get(c.Request.Context(), typeID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if record == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": record})
}

func parseKillmailFilter(c *gin.Context) (killmaildomain.ListFilter, error) {
	var filter killmaildomain.ListFilter

	if v := c.Query("ship_type_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return filter, newValidationError("ship_type_id", "invalid_ship_type_id", "invalid ship type id")
		}
		filter.ShipTypeID = id
	}
	if v := c.Query("since"); v != "" {
		ts, err := parseDateOrTime(v)
		if err != nil {
			return filter, newValidationError("since", "invalid_since", "expected RFC3339 or YYYY-MM-DD")
		}
		filter.Since = ts
	}
	if v := c.Query("until"); v != "" {
		ts, err := parseDateOrTime(v)
		if err != nil {
			return filter, newValidationError("until", "invalid_until", "expected RFC3339 or YYYY-MM-DD")
		}
		filter.Until = ts
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return filter, newValidationError("limit", "invalid_limit", "invalid limit")
		}
		filter.Limit = limit
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return filter, newValidationError("offset", "invalid_offset", "invalid offset")
		}
		filter.Offset = offset
	}
	return filter, nil
}

func parseDateOrTime(v string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}
