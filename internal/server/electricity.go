package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	electricitydomain "github.com/ozwatts/gridwatch/internal/electricity/domain"
	"github.com/ozwatts/gridwatch/pkg/db/pagination"
)

func (s *Server) listPrices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Region      string `form:"region"`
		StartDate   string `form:"start_date"`
		EndDate     string `form:"end_date"`
		IncludeZero string `form:"include_zero"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	startDate, err := parseOptionalTime(query.StartDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
		return
	}
	endDate, err := parseOptionalTime(query.EndDate, true)
	if err != nil {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "invalid end_date"))
		return
	}
	includeZero, err := parseOptionalBool(query.IncludeZero)
	if err != nil {
		AbortWithError(c, newValidationError("include_zero", "invalid_include_zero", "invalid include_zero"))
		return
	}

	resp, err := s.electricitySvc.List(c.Request.Context(), electricitydomain.ListPricesRequest{
		Region:      strings.TrimSpace(query.Region),
		StartDate:   startDate,
		EndDate:     endDate,
		IncludeZero: includeZero,
		Page:        query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) currentPrices(c *gin.Context) {
	includeZero, err := parseOptionalBool(c.Query("include_zero"))
	if err != nil {
		AbortWithError(c, newValidationError("include_zero", "invalid_include_zero", "invalid include_zero"))
		return
	}

	resp, err := s.electricitySvc.Current(c.Request.Context(), electricitydomain.CurrentPricesRequest{
		Region:      strings.TrimSpace(c.Query("region")),
		IncludeZero: includeZero,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) priceTrends(c *gin.Context) {
	days, err := parseOptionalInt(c.Query("days"))
	if err != nil {
		AbortWithError(c, newValidationError("days", "invalid_days", "invalid days"))
		return
	}

	resp, err := s.electricitySvc.Trends(c.Request.Context(), electricitydomain.PriceTrendsRequest{
		Region: strings.TrimSpace(c.Query("region")),
		Days:   days,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) priceRegions(c *gin.Context) {
	resp, err := s.electricitySvc.Regions(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) createPrice(c *gin.Context) {
	var req electricitydomain.CreatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.electricitySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
