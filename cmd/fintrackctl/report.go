package main

import (
	"context"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/fintrack/fintrack-backend/internal/repository/postgres"
	"github.com/fintrack/fintrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	var (
		owner  string
		months int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print an owner's financial report",
		Long: `Prints the current month's income and expense summary with its health status,
the monthly trend over the trailing months and the month's spending insights.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ownerID, err := parseOwner(owner)
			if err != nil {
				return err
			}

			pool, err := openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			return printReport(cmd.Context(), newAnalyticsService(pool), ownerID, months)
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner (user) ID")
	cmd.Flags().IntVar(&months, "months", domain.DashboardTrendMonths, "months of trend to include (1-24)")
	return cmd
}

func newAnalyticsService(pool *pgxpool.Pool) *service.AnalyticsService {
	categoryRepo := postgres.NewCategoryRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)

	validator := service.NewBudgetValidator(budgetRepo, categoryRepo, nil)
	budgets := service.NewBudgetService(budgetRepo, transactionRepo, postgres.NewTxManager(pool), validator, nil)
	return service.NewAnalyticsService(transactionRepo, categoryRepo, budgetRepo, budgets, nil)
}

func printReport(ctx context.Context, analytics *service.AnalyticsService, ownerID uuid.UUID, months int) error {
	month := analytics.CurrentMonth()

	summary, err := analytics.GetIncomeExpenseSummary(ctx, ownerID, month)
	if err != nil {
		return err
	}
	log.Info().
		Str("from", month.Start.Format("2006-01-02")).
		Str("to", month.End.Format("2006-01-02")).
		Str("income", summary.TotalIncome.StringFixed(2)).
		Str("expenses", summary.TotalExpenses.StringFixed(2)).
		Str("net", summary.NetWorth.StringFixed(2)).
		Str("savings_rate", summary.SavingsRate.StringFixed(1)).
		Str("health", summary.Health.DisplayName()).
		Msg("Current month")

	trend, err := analytics.GetMonthlyTrend(ctx, ownerID, months)
	if err != nil {
		return err
	}
	for _, p := range trend {
		log.Info().
			Str("income", p.Income.StringFixed(2)).
			Str("expenses", p.Expenses.StringFixed(2)).
			Str("net", p.Net.StringFixed(2)).
			Msg(p.MonthLabel)
	}

	insights, err := analytics.GetInsights(ctx, ownerID, month)
	if err != nil {
		return err
	}
	for _, i := range insights {
		log.WithLevel(insightLevel(i.Severity)).Str("insight", i.Title).Msg(i.Message)
	}
	return nil
}

func insightLevel(severity domain.InsightSeverity) zerolog.Level {
	if severity == domain.SeverityWarning {
		return zerolog.WarnLevel
	}
	return zerolog.InfoLevel
}
