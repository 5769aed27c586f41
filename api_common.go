package main

import (
	"errors"
	"net/http"
	"strconv"

	"bitbucket.org/montealto-academy/academy_backend/middlewares"
	"bitbucket.org/montealto-academy/academy_backend/models"
	"bitbucket.org/montealto-academy/academy_backend/utils"
	"github.com/gin-gonic/gin"
)

func registerRoutes(r *gin.Engine) {
	r.POST("/login", loginHandler)

	api := r.Group("/api", middlewares.RequireAuth())

	registerRosterRoutes(api)
	registerExpenseRoutes(api)
	registerTuitionRoutes(api)
	registerPayrollRoutes(api)
	registerReportRoutes(api)

	api.POST("/uploads", uploadHandler)
}

// handleError maps domain errors onto HTTP statuses. Unknown errors stay
// opaque to the client.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, utils.ErrDuplicateConstraint),
		errors.Is(err, utils.ErrDuplicateExpenseNumber),
		errors.Is(err, utils.ErrReferenceProtected):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrInvalidAmount),
		errors.Is(err, utils.ErrInvalidPeriod),
		errors.Is(err, utils.ErrInvalidPaymentDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func paramId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := models.LoginTeacher(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
