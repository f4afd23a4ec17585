package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type tableStats struct {
	Count  int64      `json:"count"`
	Oldest *time.Time `json:"oldest_record"`
	Newest *time.Time `json:"newest_record"`
}

type statsResponse struct {
	ElectricityPrices tableStats `json:"electricity_prices"`
	DamLevels         tableStats `json:"dam_levels"`
}

func (s *Server) stats(c *gin.Context) {
	ctx := c.Request.Context()

	priceCount, err := s.elecRepo.Count(ctx, s.db)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	priceOldest, priceNewest, err := s.elecRepo.TimeRange(ctx, s.db)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	levelCount, err := s.damRepo.Count(ctx, s.db)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	levelOldest, levelNewest, err := s.damRepo.TimeRange(ctx, s.db)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, statsResponse{
		ElectricityPrices: tableStats{Count: priceCount, Oldest: priceOldest, Newest: priceNewest},
		DamLevels:         tableStats{Count: levelCount, Oldest: levelOldest, Newest: levelNewest},
	})
}
