package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetTaxSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default_tax_rate": s.taxCfg.DefaultRate(),
	})
}
