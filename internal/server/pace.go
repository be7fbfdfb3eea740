package server

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/staylytics/revpace/internal/interval"
	pacedomain "github.com/staylytics/revpace/internal/pace/domain"
)

type computePaceRequest struct {
	PickupDates []string `json:"pickup_dates" binding:"required,min=1"`
	From        string   `json:"from" binding:"required"`
	To          string   `json:"to" binding:"required"`
	Interval    string   `json:"interval"`
	MetricIDs   []string `json:"metric_ids"`
	ListingIDs  []int64  `json:"listing_ids"`
}

func (s *Server) ComputePace(c *gin.Context) {
	var req computePaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_request", err.Error()))
		return
	}

	pickups := make([]time.Time, 0, len(req.PickupDates))
	for _, raw := range req.PickupDates {
		t, err := parseDate(raw)
		if err != nil {
			AbortWithError(c, newValidationError("pickup_dates", "invalid_date", "pickup dates must be YYYY-MM-DD"))
			return
		}
		pickups = append(pickups, t)
	}

	from, err := parseDate(req.From)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_date", "from must be YYYY-MM-DD"))
		return
	}
	to, err := parseDate(req.To)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_date", "to must be YYYY-MM-DD"))
		return
	}

	iv := interval.Interval(strings.ToLower(strings.TrimSpace(req.Interval)))
	if iv == "" {
		iv = interval.Day
	}

	listingIDs := make([]snowflake.ID, 0, len(req.ListingIDs))
	for _, id := range req.ListingIDs {
		listingIDs = append(listingIDs, snowflake.ID(id))
	}

	result, err := s.pacesvc.ComputePace(c.Request.Context(), pacedomain.ComputeRequest{
		PickupDates: pickups,
		From:        from,
		To:          to,
		Interval:    iv,
		MetricIDs:   req.MetricIDs,
		ListingIDs:  listingIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, result)
}

func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", strings.TrimSpace(raw), time.UTC)
}
