package analytics

import (
	"fmt"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Insight thresholds, as percentages of total expenses.
var (
	ConcentrationThreshold = decimal.NewFromInt(40)
	UncategorizedThreshold = decimal.NewFromInt(20)
	SignificantThreshold   = decimal.NewFromInt(10)
)

// DiverseCategoryCount is the number of significant categories that must be
// exceeded for spending to count as diverse.
const DiverseCategoryCount = 5

// Insights applies the threshold rules to a breakdown sorted by amount
// descending. The breakdown is not modified.
func Insights(breakdown domain.CategoryBreakdown) []domain.Insight {
	if breakdown.IsEmpty() {
		return []domain.Insight{{
			Title:    "No Data",
			Message:  "You haven't recorded any expenses in this period.",
			Severity: domain.SeverityInfo,
		}}
	}

	insights := []domain.Insight{}

	top := breakdown.Categories[0]
	if top.PercentageOfTotal.GreaterThan(ConcentrationThreshold) {
		insights = append(insights, domain.Insight{
			Title: "High Concentration",
			Message: fmt.Sprintf("%s accounts for %s%% of your expenses. Consider diversifying your spending.",
				top.Name, top.PercentageOfTotal.StringFixed(1)),
			Severity: domain.SeverityWarning,
		})
	}

	for _, c := range breakdown.Categories {
		if !c.IsUncategorized() {
			continue
		}
		if c.PercentageOfTotal.GreaterThan(UncategorizedThreshold) {
			insights = append(insights, domain.Insight{
				Title: "Uncategorized Expenses",
				Message: fmt.Sprintf("You have %s%% uncategorized expenses. Consider creating categories for better tracking.",
					c.PercentageOfTotal.StringFixed(1)),
				Severity: domain.SeverityInfo,
			})
		}
		break
	}

	significant := 0
	for _, c := range breakdown.Categories {
		if c.PercentageOfTotal.GreaterThan(SignificantThreshold) {
			significant++
		}
	}
	if significant > DiverseCategoryCount {
		insights = append(insights, domain.Insight{
			Title: "Diverse Spending",
			Message: fmt.Sprintf("Your expenses are well distributed across %d categories. Great job maintaining balanced spending!",
				significant),
			Severity: domain.SeveritySuccess,
		})
	}

	return insights
}
