package reports

import (
	"context"

	"bitbucket.org/montealto-academy/academy_backend/config"
	"bitbucket.org/montealto-academy/academy_backend/models"
	"github.com/shopspring/decimal"
)

type ExpenseByCategory struct {
	CategoryId   int                 `json:"category_id"`
	CategoryName string              `json:"category_name"`
	CategoryType models.CategoryType `json:"category_type"`
	Total        decimal.Decimal     `json:"total"`
	Count        int                 `json:"count"`
}

type ExpenseBreakdown struct {
	StartDate models.DateString   `json:"start_date"`
	EndDate   models.DateString   `json:"end_date"`
	Total     decimal.Decimal     `json:"total"`
	Details   []ExpenseByCategory `json:"details"`
}

// GetExpenseBreakdown totals paid expenses per category inside the date
// range, largest category first.
func GetExpenseBreakdown(ctx context.Context, fromDate, toDate models.DateString) (*ExpenseBreakdown, error) {
	db := config.GetDB()

	query := `
		SELECT
			cat.id AS category_id,
			cat.name AS category_name,
			cat.category_type AS category_type,
			COALESCE(SUM(exp.total_amount), 0) AS total,
			COUNT(exp.id) AS count
		FROM expenses AS exp
		JOIN expense_categories AS cat ON exp.category_id = cat.id
		WHERE
			exp.status = ?
			AND exp.payment_date BETWEEN ? AND ?
		GROUP BY
			cat.id,
			cat.name,
			cat.category_type
		ORDER BY
			total DESC;
	`

	rows, err := db.WithContext(ctx).Raw(query, models.ExpenseStatusPaid, fromDate, toDate).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var total decimal.Decimal
	var details []ExpenseByCategory

	for rows.Next() {
		var detail ExpenseByCategory
		if err := rows.Scan(&detail.CategoryId, &detail.CategoryName, &detail.CategoryType,
			&detail.Total, &detail.Count); err != nil {
			return nil, err
		}
		details = append(details, detail)
		total = total.Add(detail.Total)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ExpenseBreakdown{
		StartDate: fromDate,
		EndDate:   toDate,
		Total:     total,
		Details:   details,
	}, nil
}
