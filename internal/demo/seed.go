// Package demo fills an empty ledger with sample data for local runs.
package demo

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"finance/internal/core"
	"finance/internal/services"
)

const (
	SampleEmail = "demo@finance.local"
	SampleName  = "Demo User"
)

// SeedSample creates the demo user with one salary, one fixed housing
// expense and an emergency fund goal. It does nothing unless the ledger has
// no users, so repeated runs are safe.
func SeedSample(ctx context.Context, svc *services.LedgerService, today core.Date) (userID int64, seeded bool, err error) {
	users, err := svc.ListUsers(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("list users: %w", err)
	}
	if len(users) > 0 {
		return 0, false, nil
	}

	userID, err = svc.CreateUser(ctx, core.User{Name: SampleName, Email: SampleEmail})
	if err != nil {
		return 0, false, fmt.Errorf("create demo user: %w", err)
	}

	if _, err := svc.AddIncome(ctx, core.Income{
		UserID: userID, Type: "Salary", Amount: core.MustParseMoney("2500"), Date: today,
		Description: "Monthly salary",
	}); err != nil {
		return userID, false, fmt.Errorf("seed income: %w", err)
	}
	if _, err := svc.AddExpense(ctx, core.Expense{
		UserID: userID, Category: core.Housing, Kind: core.ExpenseKindFixed,
		Amount: core.MustParseMoney("800"), Date: today, Description: "Rent",
	}); err != nil {
		return userID, false, fmt.Errorf("seed expense: %w", err)
	}
	if _, err := svc.AddGoal(ctx, core.Goal{
		UserID: userID, Title: "Emergency Fund", Type: core.GoalEmergency,
		CurrentAmount: core.MustParseMoney("500"), TargetAmount: core.MustParseMoney("5000"),
		TargetDate: today.AddDays(180),
	}); err != nil {
		return userID, false, fmt.Errorf("seed goal: %w", err)
	}
	return userID, true, nil
}

// Generate adds n random incomes and expenses dated within the last
// historyDays days. The same seed yields the same entries.
func Generate(ctx context.Context, svc *services.LedgerService, userID int64, today core.Date, n, historyDays int, seed int64) (int, error) {
	if historyDays < 1 {
		historyDays = 1
	}
	faker := gofakeit.New(seed)

	created := 0
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		date := today.AddDays(-faker.Number(0, historyDays-1))

		var err error
		// Roughly one entry in five is income.
		if faker.Number(1, 5) == 1 {
			_, err = svc.AddIncome(ctx, core.Income{
				UserID:      userID,
				Type:        faker.RandomString(core.IncomeTypes),
				Amount:      price(faker, 200, 3000),
				Date:        date,
				Description: faker.Sentence(4),
			})
		} else {
			cat := core.ExpenseCategories[faker.Number(0, len(core.ExpenseCategories)-1)]
			_, err = svc.AddExpense(ctx, core.Expense{
				UserID:      userID,
				Category:    cat,
				Kind:        faker.RandomString([]string{core.ExpenseKindVariable, core.ExpenseKindFixed}),
				Amount:      price(faker, 1, 400),
				Date:        date,
				Description: faker.Sentence(4),
			})
		}
		if err != nil {
			return created, fmt.Errorf("generate entry %d: %w", i, err)
		}
		created++
	}
	return created, nil
}

func price(f *gofakeit.Faker, min, max float64) core.Money {
	return core.NewMoney(decimal.NewFromFloat(f.Price(min, max)).Round(2))
}
