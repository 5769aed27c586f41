package main

import (
	"net/http"

	"bitbucket.org/montealto-academy/academy_backend/models"
	"bitbucket.org/montealto-academy/academy_backend/utils"
	"github.com/gin-gonic/gin"
)

func registerExpenseRoutes(api *gin.RouterGroup) {
	api.GET("/expense-categories", listExpenseCategoriesHandler)
	api.GET("/expense-categories/:id", getExpenseCategoryHandler)
	api.POST("/expense-categories", createExpenseCategoryHandler)
	api.PUT("/expense-categories/:id", updateExpenseCategoryHandler)
	api.DELETE("/expense-categories/:id", deleteExpenseCategoryHandler)

	api.GET("/expenses", listExpensesHandler)
	api.GET("/expenses/overdue", listOverdueExpensesHandler)
	api.GET("/expenses/:id", getExpenseHandler)
	api.POST("/expenses", createExpenseHandler)
	api.PUT("/expenses/:id", updateExpenseHandler)
	api.DELETE("/expenses/:id", deleteExpenseHandler)

	api.GET("/recurring-expense-templates", listRecurringTemplatesHandler)
	api.GET("/recurring-expense-templates/:id", getRecurringTemplateHandler)
	api.POST("/recurring-expense-templates", createRecurringTemplateHandler)
	api.PUT("/recurring-expense-templates/:id", updateRecurringTemplateHandler)
	api.DELETE("/recurring-expense-templates/:id", deleteRecurringTemplateHandler)
}

func listExpenseCategoriesHandler(c *gin.Context) {
	categories, err := models.FetchExpenseCategories(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func getExpenseCategoryHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	category, err := models.GetExpenseCategory(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func createExpenseCategoryHandler(c *gin.Context) {
	var input models.NewExpenseCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := models.CreateExpenseCategory(c.Request.Context(), &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func updateExpenseCategoryHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewExpenseCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := models.UpdateExpenseCategory(c.Request.Context(), id, &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func deleteExpenseCategoryHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	if err := models.DeleteExpenseCategory(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// expenseView decorates an expense with its on-demand overdue state.
type expenseView struct {
	*models.Expense
	IsOverdue   bool `json:"is_overdue"`
	DaysOverdue int  `json:"days_overdue"`
}

func toExpenseView(expense *models.Expense) expenseView {
	today := utils.Today()
	return expenseView{
		Expense:     expense,
		IsOverdue:   expense.IsOverdue(today),
		DaysOverdue: expense.DaysOverdue(today),
	}
}

func listExpensesHandler(c *gin.Context) {
	expenses, err := models.FetchExpenses(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	views := make([]expenseView, 0, len(expenses))
	for _, expense := range expenses {
		views = append(views, toExpenseView(expense))
	}
	c.JSON(http.StatusOK, views)
}

func listOverdueExpensesHandler(c *gin.Context) {
	expenses, err := models.FetchOverdueExpenses(c.Request.Context(), utils.Today())
	if err != nil {
		handleError(c, err)
		return
	}
	views := make([]expenseView, 0, len(expenses))
	for _, expense := range expenses {
		views = append(views, toExpenseView(expense))
	}
	c.JSON(http.StatusOK, views)
}

func getExpenseHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	expense, err := models.GetExpense(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toExpenseView(expense))
}

func createExpenseHandler(c *gin.Context) {
	var input models.NewExpense
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	expense, err := models.CreateExpense(c.Request.Context(), &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toExpenseView(expense))
}

func updateExpenseHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewExpense
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	expense, err := models.UpdateExpense(c.Request.Context(), id, &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toExpenseView(expense))
}

func deleteExpenseHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	if err := models.DeleteExpense(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func listRecurringTemplatesHandler(c *gin.Context) {
	templates, err := models.FetchRecurringExpenseTemplates(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

func getRecurringTemplateHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	template, err := models.GetRecurringExpenseTemplate(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func createRecurringTemplateHandler(c *gin.Context) {
	var input models.NewRecurringExpenseTemplate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	template, err := models.CreateRecurringExpenseTemplate(c.Request.Context(), &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

func updateRecurringTemplateHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewRecurringExpenseTemplate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	template, err := models.UpdateRecurringExpenseTemplate(c.Request.Context(), id, &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func deleteRecurringTemplateHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	if err := models.DeleteRecurringExpenseTemplate(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
