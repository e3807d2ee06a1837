package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	accountantdomain "github.com/smallbiznis/hisab/internal/accountant/domain"
)

type CreateAccountantBody struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

func (s *Server) ListAccountants(c *gin.Context) {
	accountants, err := s.accountantSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accountants": accountants})
}

func (s *Server) CreateAccountant(c *gin.Context) {
	var body CreateAccountantBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.accountantSvc.Create(c.Request.Context(), accountantdomain.CreateAccountantRequest{
		Email:    body.Email,
		FullName: body.FullName,
		Password: body.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (s *Server) DeleteAccountant(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil || id == 0 {
		AbortWithError(c, accountantdomain.ErrInvalidID)
		return
	}

	if err := s.accountantSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
