package main

import (
	"net/http"

	"bitbucket.org/montealto-academy/academy_backend/models"
	"bitbucket.org/montealto-academy/academy_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func registerTuitionRoutes(api *gin.RouterGroup) {
	api.GET("/enrollment-types", listEnrollmentTypesHandler)
	api.GET("/enrollment-types/:id", getEnrollmentTypeHandler)
	api.POST("/enrollment-types", createEnrollmentTypeHandler)
	api.PUT("/enrollment-types/:id", updateEnrollmentTypeHandler)
	api.DELETE("/enrollment-types/:id", deleteEnrollmentTypeHandler)

	api.GET("/enrollments", listEnrollmentsHandler)
	api.GET("/enrollments/:id", getEnrollmentHandler)
	api.POST("/enrollments", createEnrollmentHandler)
	api.PUT("/enrollments/:id", updateEnrollmentHandler)
	api.DELETE("/enrollments/:id", deleteEnrollmentHandler)

	api.GET("/payments", listPaymentsHandler)
	api.GET("/payments/overdue", listOverduePaymentsHandler)
	api.GET("/payments/:id", getPaymentHandler)
	api.POST("/payments", createPaymentHandler)
	api.PUT("/payments/:id", updatePaymentHandler)
	api.DELETE("/payments/:id", deletePaymentHandler)
}

func listEnrollmentTypesHandler(c *gin.Context) {
	types, err := models.FetchEnrollmentTypes(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

func getEnrollmentTypeHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	enrollmentType, err := models.GetEnrollmentType(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollmentType)
}

func createEnrollmentTypeHandler(c *gin.Context) {
	var input models.NewEnrollmentType
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	enrollmentType, err := models.CreateEnrollmentType(c.Request.Context(), &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollmentType)
}

func updateEnrollmentTypeHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewEnrollmentType
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	enrollmentType, err := models.UpdateEnrollmentType(c.Request.Context(), id, &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollmentType)
}

func deleteEnrollmentTypeHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	if err := models.DeleteEnrollmentType(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// enrollmentView carries the payoff state computed from completed payments.
type enrollmentView struct {
	*models.Enrollment
	IsPaid          bool            `json:"is_paid"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

func toEnrollmentView(c *gin.Context, enrollment *models.Enrollment) (*enrollmentView, error) {
	completed, err := enrollment.CompletedPaymentsTotal(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return &enrollmentView{
		Enrollment:      enrollment,
		IsPaid:          enrollment.IsPaid(completed),
		RemainingAmount: enrollment.RemainingAmount(completed),
	}, nil
}

func listEnrollmentsHandler(c *gin.Context) {
	enrollments, err := models.FetchEnrollments(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	views := make([]*enrollmentView, 0, len(enrollments))
	for _, enrollment := range enrollments {
		view, err := toEnrollmentView(c, enrollment)
		if err != nil {
			handleError(c, err)
			return
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, views)
}

func getEnrollmentHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	enrollment, err := models.GetEnrollment(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	view, err := toEnrollmentView(c, enrollment)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func createEnrollmentHandler(c *gin.Context) {
	var input models.NewEnrollment
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	enrollment, err := models.CreateEnrollment(c.Request.Context(), &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

func updateEnrollmentHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewEnrollment
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	enrollment, err := models.UpdateEnrollment(c.Request.Context(), id, &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

func deleteEnrollmentHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	if err := models.DeleteEnrollment(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type paymentView struct {
	*models.Payment
	IsOverdue   bool `json:"is_overdue"`
	DaysOverdue int  `json:"days_overdue"`
}

func toPaymentView(payment *models.Payment) paymentView {
	today := utils.Today()
	return paymentView{
		Payment:     payment,
		IsOverdue:   payment.IsOverdue(today),
		DaysOverdue: payment.DaysOverdue(today),
	}
}

func listPaymentsHandler(c *gin.Context) {
	payments, err := models.FetchPayments(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	views := make([]paymentView, 0, len(payments))
	for _, payment := range payments {
		views = append(views, toPaymentView(payment))
	}
	c.JSON(http.StatusOK, views)
}

func listOverduePaymentsHandler(c *gin.Context) {
	payments, err := models.FetchOverduePayments(c.Request.Context(), utils.Today())
	if err != nil {
		handleError(c, err)
		return
	}
	views := make([]paymentView, 0, len(payments))
	for _, payment := range payments {
		views = append(views, toPaymentView(payment))
	}
	c.JSON(http.StatusOK, views)
}

func getPaymentHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	payment, err := models.GetPayment(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentView(payment))
}

func createPaymentHandler(c *gin.Context) {
	var input models.NewPayment
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payment, err := models.CreatePayment(c.Request.Context(), &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPaymentView(payment))
}

func updatePaymentHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewPayment
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payment, err := models.UpdatePayment(c.Request.Context(), id, &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentView(payment))
}

func deletePaymentHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	if err := models.DeletePayment(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
