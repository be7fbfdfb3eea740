package server

import (
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	rateflowdomain "github.com/staylytics/revpace/internal/rateflow/domain"
	"github.com/staylytics/revpace/internal/rates"
)

// OtaRateSeries is the interactive path: load failures propagate to
// the caller instead of being swallowed like the passive preload.
func (s *Server) OtaRateSeries(c *gin.Context) {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_date", "from must be YYYY-MM-DD"))
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_date", "to must be YYYY-MM-DD"))
		return
	}

	filter := rateflowdomain.ChannelFilter{
		ListingID:  queryID(c, "listing_id"),
		RatePlanID: queryID(c, "rate_plan_id"),
		ChannelID:  queryID(c, "channel_id"),
	}

	ctx := c.Request.Context()
	registry := s.rates.New(s.clock.Now(ctx), from, to)
	series, err := registry.LoadOtaFlowRecords(ctx, rates.OtaRequest{
		From:   from,
		To:     to,
		Filter: filter,
	})
	if s.counts != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.counts.OtaLoads.WithLabelValues(status).Inc()
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, series)
}

func queryID(c *gin.Context, name string) snowflake.ID {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return snowflake.ID(id)
}
