package models_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/config"
	"bitbucket.org/montealto-academy/academy_backend/models"
	"bitbucket.org/montealto-academy/academy_backend/models/reports"
)

// Seeds March 2024 with one completed payment (500.00) and one paid expense
// (300.00), then checks the summary aggregations, the period calculator and
// the recurring materializer against a real database.
func TestFinancialSummaryAggregation(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "academy_test")

	config.ConnectDatabaseWithRetry()
	models.MigrateTable()

	adminTrue := true
	teacher, err := models.CreateTeacher(ctx, &models.NewTeacher{
		LastName:  "Serrano",
		FirstName: "Marta",
		Email:     "marta@academy.test",
		Admin:     &adminTrue,
		Password:  "summary-test-pw",
	})
	if err != nil {
		t.Fatalf("CreateTeacher: %v", err)
	}
	group, err := models.CreateGroup(ctx, &models.NewGroup{
		Name:      "B1 Tuesday",
		TeacherId: teacher.ID,
	})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	parent, err := models.CreateParent(ctx, &models.NewParent{
		LastName:  "Ortega",
		FirstName: "Raul",
		Dni:       "12345678Z",
	})
	if err != nil {
		t.Fatalf("CreateParent: %v", err)
	}
	student, err := models.CreateStudent(ctx, &models.NewStudent{
		LastName:       "Ortega",
		FirstName:      "Ana",
		EnrollmentDate: models.NewDate(2023, 9, 1),
		GroupId:        &group.ID,
		ParentIds:      []int{parent.ID},
	})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	// Income: 500.00 completed inside March 2024.
	paid := models.NewDate(2024, 3, 10)
	_, err = models.CreatePayment(ctx, &models.NewPayment{
		StudentId:     student.ID,
		ParentId:      parent.ID,
		Amount:        dec("500.00"),
		PaymentStatus: models.PaymentStatusCompleted,
		DueDate:       models.NewDate(2024, 3, 5),
		PaymentDate:   &paid,
		Concept:       "March tuition",
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	category, err := models.CreateExpenseCategory(ctx, &models.NewExpenseCategory{
		Name:         "Utilities",
		CategoryType: models.CategoryTypeOperational,
	})
	if err != nil {
		t.Fatalf("CreateExpenseCategory: %v", err)
	}

	// Outgoings: 300.00 paid inside March 2024.
	expensePaid := models.NewDate(2024, 3, 20)
	_, err = models.CreateExpense(ctx, &models.NewExpense{
		Description: "Electricity March",
		CategoryId:  category.ID,
		Amount:      dec("300.00"),
		ExpenseDate: models.NewDate(2024, 3, 18),
		Status:      models.ExpenseStatusPaid,
		PaymentDate: &expensePaid,
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	march, err := reports.GetMonthlySummary(ctx, 2024, time.March)
	if err != nil {
		t.Fatalf("GetMonthlySummary: %v", err)
	}
	if march.Period != "2024-03" {
		t.Errorf("period = %q, want 2024-03", march.Period)
	}
	if !march.Income.Equal(dec("500.00")) {
		t.Errorf("income = %s, want 500.00", march.Income)
	}
	if !march.Expenses.Equal(dec("300.00")) {
		t.Errorf("expenses = %s, want 300.00", march.Expenses)
	}
	if !march.Profit.Equal(dec("200.00")) {
		t.Errorf("profit = %s, want 200.00", march.Profit)
	}

	// A month with no rows aggregates to decimal zero, not an error.
	february, err := reports.GetMonthlySummary(ctx, 2024, time.February)
	if err != nil {
		t.Fatalf("GetMonthlySummary february: %v", err)
	}
	if !february.Income.IsZero() || !february.Expenses.IsZero() || !february.Profit.IsZero() {
		t.Errorf("idle month = %s/%s/%s, want zeros",
			february.Income, february.Expenses, february.Profit)
	}

	// Calculating a period twice over unchanged rows yields identical,
	// persisted figures.
	period, err := models.CreateFinancialPeriod(ctx, &models.NewFinancialPeriod{
		Name:       "March 2024",
		PeriodType: models.PeriodTypeMonthly,
		StartDate:  models.NewDate(2024, 3, 1),
		EndDate:    models.NewDate(2024, 3, 31),
	})
	if err != nil {
		t.Fatalf("CreateFinancialPeriod: %v", err)
	}
	first, err := period.CalculateFinancials(ctx)
	if err != nil {
		t.Fatalf("CalculateFinancials: %v", err)
	}
	second, err := period.CalculateFinancials(ctx)
	if err != nil {
		t.Fatalf("CalculateFinancials again: %v", err)
	}
	if !first.Income.Equal(second.Income) || !first.Expenses.Equal(second.Expenses) || !first.Profit.Equal(second.Profit) {
		t.Errorf("recalculation drifted: %v vs %v", first, second)
	}
	if !first.Profit.Equal(dec("200.00")) {
		t.Errorf("period profit = %s, want 200.00", first.Profit)
	}
	stored, err := models.GetFinancialPeriod(ctx, period.ID)
	if err != nil {
		t.Fatalf("GetFinancialPeriod: %v", err)
	}
	if !stored.NetProfit.Equal(dec("200.00")) {
		t.Errorf("stored net profit = %s, want 200.00", stored.NetProfit)
	}

	// Materializing the same template period twice yields exactly one expense,
	// already carrying its template columns.
	template, err := models.CreateRecurringExpenseTemplate(ctx, &models.NewRecurringExpenseTemplate{
		Name:          "Office rent",
		Description:   "Monthly rent",
		CategoryId:    category.ID,
		VendorName:    "Inmuebles Centro SL",
		DefaultAmount: dec("1200.00"),
		Frequency:     models.RecurringFrequencyMonthly,
		StartDate:     models.NewDate(2024, 4, 1),
	})
	if err != nil {
		t.Fatalf("CreateRecurringExpenseTemplate: %v", err)
	}
	periodStart := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	created, err := models.MaterializeRecurringExpense(ctx, template, periodStart)
	if err != nil {
		t.Fatalf("MaterializeRecurringExpense: %v", err)
	}
	if created == nil || created.TemplateId == nil || *created.TemplateId != template.ID {
		t.Fatalf("materialized expense missing template reference: %+v", created)
	}
	again, err := models.MaterializeRecurringExpense(ctx, template, periodStart)
	if err != nil {
		t.Fatalf("MaterializeRecurringExpense repeat: %v", err)
	}
	if again != nil {
		t.Errorf("second materialization created expense %d", again.ID)
	}
	var rows int64
	err = config.GetDB().Model(&models.Expense{}).
		Where("template_id = ?", template.ID).Count(&rows).Error
	if err != nil {
		t.Fatalf("count materialized rows: %v", err)
	}
	if rows != 1 {
		t.Errorf("materialized rows = %d, want 1", rows)
	}
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("academy-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=academy_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
