package main

import (
	"net/http"

	"bitbucket.org/montealto-academy/academy_backend/models"
	"github.com/gin-gonic/gin"
)

func registerPayrollRoutes(api *gin.RouterGroup) {
	api.GET("/payrolls", listPayrollsHandler)
	api.GET("/payrolls/:id", getPayrollHandler)
	api.POST("/payrolls", createPayrollHandler)
	api.PUT("/payrolls/:id", updatePayrollHandler)
	api.DELETE("/payrolls/:id", deletePayrollHandler)
}

func listPayrollsHandler(c *gin.Context) {
	payrolls, err := models.FetchPayrolls(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, payrolls)
}

func getPayrollHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	payroll, err := models.GetPayroll(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, payroll)
}

func createPayrollHandler(c *gin.Context) {
	var input models.NewPayroll
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payroll, err := models.CreatePayroll(c.Request.Context(), &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payroll)
}

func updatePayrollHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewPayroll
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payroll, err := models.UpdatePayroll(c.Request.Context(), id, &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, payroll)
}

func deletePayrollHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	if err := models.DeletePayroll(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
