package main

import (
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/models"
	"bitbucket.org/montealto-academy/academy_backend/models/reports"
	"bitbucket.org/montealto-academy/academy_backend/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func registerReportRoutes(api *gin.RouterGroup) {
	api.GET("/financial-periods", listFinancialPeriodsHandler)
	api.GET("/financial-periods/:id", getFinancialPeriodHandler)
	api.POST("/financial-periods", createFinancialPeriodHandler)
	api.PUT("/financial-periods/:id", updateFinancialPeriodHandler)
	api.DELETE("/financial-periods/:id", deleteFinancialPeriodHandler)
	api.POST("/financial-periods/:id/calculate", calculateFinancialPeriodHandler)

	api.GET("/reports/monthly-summary", monthlySummaryHandler)
	api.GET("/reports/yearly-summary", yearlySummaryHandler)
	api.GET("/reports/expense-breakdown", expenseBreakdownHandler)
}

func listFinancialPeriodsHandler(c *gin.Context) {
	periods, err := models.FetchFinancialPeriods(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, periods)
}

func getFinancialPeriodHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	period, err := models.GetFinancialPeriod(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, period)
}

func createFinancialPeriodHandler(c *gin.Context) {
	var input models.NewFinancialPeriod
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	period, err := models.CreateFinancialPeriod(c.Request.Context(), &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, period)
}

func updateFinancialPeriodHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewFinancialPeriod
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	period, err := models.UpdateFinancialPeriod(c.Request.Context(), id, &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, period)
}

func deleteFinancialPeriodHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	if err := models.DeleteFinancialPeriod(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func calculateFinancialPeriodHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	period, err := models.GetFinancialPeriod(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	financials, err := period.CalculateFinancials(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": period, "financials": financials})
}

func queryYearMonth(c *gin.Context) (int, time.Month, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", "0"))
	if err != nil || month < 0 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return 0, 0, false
	}
	return year, time.Month(month), true
}

func monthlySummaryHandler(c *gin.Context) {
	year, month, ok := queryYearMonth(c)
	if !ok {
		return
	}
	if month == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}
	ctx, span := tracer.Start(c.Request.Context(), "reports.monthly-summary")
	defer span.End()
	summary, err := reports.GetMonthlySummary(ctx, year, month)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func yearlySummaryHandler(c *gin.Context) {
	year, _, ok := queryYearMonth(c)
	if !ok {
		return
	}
	ctx, span := tracer.Start(c.Request.Context(), "reports.yearly-summary")
	defer span.End()
	if c.Query("export") == "excel" {
		filename := reports.ExcelExportFilename("yearly_summary", utils.Today())
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Header("Content-Type", xlsxContentType)
		if err := reports.ExportYearlySummaryExcel(ctx, year, c.Writer); err != nil {
			handleError(c, err)
		}
		return
	}
	summaries, err := reports.GetYearlySummary(ctx, year)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func expenseBreakdownHandler(c *gin.Context) {
	fromDate, err := models.ParseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	toDate, err := models.ParseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}
	if toDate.Time().Before(fromDate.Time()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range"})
		return
	}
	ctx, span := tracer.Start(c.Request.Context(), "reports.expense-breakdown")
	defer span.End()
	if c.Query("export") == "excel" {
		filename := reports.ExcelExportFilename("expense_breakdown", utils.Today())
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Header("Content-Type", xlsxContentType)
		if err := reports.ExportExpenseBreakdownExcel(ctx, fromDate, toDate, c.Writer); err != nil {
			handleError(c, err)
		}
		return
	}
	breakdown, err := reports.GetExpenseBreakdown(ctx, fromDate, toDate)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}
