package handler

import (
	"imagesvc/internal/core/domain"
	"net/http"

	"github.com/gin-gonic/gin"
)

func NewRouter(h *HTTP) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(), Recovery())

	r.GET("/health", h.Health)
	r.POST("/transform", h.Transform)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, domain.ErrorResponse{Detail: "not found", Code: http.StatusNotFound})
	})

	return r
}
