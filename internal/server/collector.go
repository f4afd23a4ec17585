package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) startCollection(c *gin.Context) {
	resp, err := s.runner.Start()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, resp)
}

func (s *Server) collectionStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.runner.Status())
}
