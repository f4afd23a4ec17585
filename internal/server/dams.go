package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	damsdomain "github.com/ozwatts/gridwatch/internal/dams/domain"
	"github.com/ozwatts/gridwatch/pkg/db/pagination"
)

func (s *Server) listLevels(c *gin.Context) {
	var query struct {
		pagination.Pagination
		DamName     string `form:"dam_name"`
		State       string `form:"state"`
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

	resp, err := s.damsSvc.List(c.Request.Context(), damsdomain.ListLevelsRequest{
		DamName:     strings.TrimSpace(query.DamName),
		State:       strings.TrimSpace(query.State),
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

func (s *Server) currentLevels(c *gin.Context) {
	includeZero, err := parseOptionalBool(c.Query("include_zero"))
	if err != nil {
		AbortWithError(c, newValidationError("include_zero", "invalid_include_zero", "invalid include_zero"))
		return
	}

	resp, err := s.damsSvc.Current(c.Request.Context(), damsdomain.CurrentLevelsRequest{
		State:       strings.TrimSpace(c.Query("state")),
		IncludeZero: includeZero,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) levelTrends(c *gin.Context) {
	days, err := parseOptionalInt(c.Query("days"))
	if err != nil {
		AbortWithError(c, newValidationError("days", "invalid_days", "invalid days"))
		return
	}

	resp, err := s.damsSvc.Trends(c.Request.Context(), damsdomain.LevelTrendsRequest{
		DamName: strings.TrimSpace(c.Query("dam_name")),
		State:   strings.TrimSpace(c.Query("state")),
		Days:    days,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) listDams(c *gin.Context) {
	resp, err := s.damsSvc.Dams(c.Request.Context(), damsdomain.DamsRequest{
		State: strings.TrimSpace(c.Query("state")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) listStates(c *gin.Context) {
	resp, err := s.damsSvc.States(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) createLevel(c *gin.Context) {
	var req damsdomain.CreateLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.damsSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
