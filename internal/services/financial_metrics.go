package services

import (
	"fmt"
	"sort"
	"time"

	"finance-admin/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	BucketDay   = "day"
	BucketWeek  = "week"
	BucketMonth = "month"

	unknownConceptName = "Sin concepto"
)

var hundred = decimal.NewFromInt(100)

// CalculateMetrics totals a list of transactions. It is defined for an empty
// list, where every figure is zero.
func CalculateMetrics(transactions []models.TransactionDetail) models.FinancialMetrics {
	metrics := models.FinancialMetrics{
		TotalIncome:    decimal.Zero,
		TotalExpense:   decimal.Zero,
		AverageExpense: decimal.Zero,
		AverageIncome:  decimal.Zero,
	}

	for _, t := range transactions {
		switch t.Type {
		case models.TransactionTypeIncome:
			metrics.TotalIncome = metrics.TotalIncome.Add(t.Amount)
			metrics.IncomeCount++
		case models.TransactionTypeExpense:
			metrics.TotalExpense = metrics.TotalExpense.Add(t.Amount)
			metrics.ExpenseCount++
		}
	}

	metrics.TransactionCount = len(transactions)
	metrics.Balance = metrics.TotalIncome.Sub(metrics.TotalExpense)

	if metrics.ExpenseCount > 0 {
		metrics.AverageExpense = metrics.TotalExpense.Div(decimal.NewFromInt(int64(metrics.ExpenseCount))).Round(2)
	}
	if metrics.IncomeCount > 0 {
		metrics.AverageIncome = metrics.TotalIncome.Div(decimal.NewFromInt(int64(metrics.IncomeCount))).Round(2)
	}

	return metrics
}

// GroupByConcept totals transactions per type and concept name as stored,
// duplicates in naming included
func GroupByConcept(transactions []models.TransactionDetail) []models.GroupTotal {
	return groupBy(transactions, func(t models.TransactionDetail) (string, bool) {
		return t.ConceptName, true
	})
}

// GroupByProvider totals transactions per type and provider name.
// Transactions without a provider are left out.
func GroupByProvider(transactions []models.TransactionDetail) []models.GroupTotal {
	return groupBy(transactions, func(t models.TransactionDetail) (string, bool) {
		return t.ProviderName, t.ProviderName != ""
	})
}

// groupKey separates same-named groups of different ledger sides; concept
// names are only unique per type
type groupKey struct {
	txType string
	name   string
}

func groupBy(transactions []models.TransactionDetail, key func(models.TransactionDetail) (string, bool)) []models.GroupTotal {
	index := make(map[groupKey]int)
	groups := make([]models.GroupTotal, 0)

	for _, t := range transactions {
		name, ok := key(t)
		if !ok {
			continue
		}

		k := groupKey{txType: t.Type, name: name}
		i, exists := index[k]
		if !exists {
			i = len(groups)
			index[k] = i
			groups = append(groups, models.GroupTotal{Name: name, Type: t.Type, Total: decimal.Zero})
		}
		groups[i].Total = groups[i].Total.Add(t.Amount)
		groups[i].Count++
	}

	applyPercentages(groups)
	sortGroups(groups)
	return groups
}

// applyPercentages sets each entry's share of the list total, rounded to 2 places
func applyPercentages(groups []models.GroupTotal) {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.Total)
	}

	for i := range groups {
		if total.IsZero() {
			groups[i].Percentage = 0
			continue
		}
		groups[i].Percentage = groups[i].Total.Div(total).Mul(hundred).Round(2).InexactFloat64()
	}
}

func sortGroups(groups []models.GroupTotal) {
	sort.SliceStable(groups, func(i, j int) bool {
		if !groups[i].Total.Equal(groups[j].Total) {
			return groups[i].Total.GreaterThan(groups[j].Total)
		}
		if groups[i].Name != groups[j].Name {
			return groups[i].Name < groups[j].Name
		}
		return groups[i].Type < groups[j].Type
	})
}

// BucketByDay groups transactions per calendar day (UTC)
func BucketByDay(transactions []models.TransactionDetail) []models.PeriodBucket {
	return bucketBy(transactions, func(t time.Time) (string, time.Time) {
		start := startOfDay(t.UTC())
		return start.Format("2006-01-02"), start
	})
}

// BucketByWeek groups transactions per ISO week, keyed "2026-W03"
func BucketByWeek(transactions []models.TransactionDetail) []models.PeriodBucket {
	return bucketBy(transactions, func(t time.Time) (string, time.Time) {
		day := startOfDay(t.UTC())
		year, week := day.ISOWeek()
		offset := (int(day.Weekday()) + 6) % 7
		return fmt.Sprintf("%04d-W%02d", year, week), day.AddDate(0, 0, -offset)
	})
}

// BucketByMonth groups transactions per calendar month, keyed "2026-03"
func BucketByMonth(transactions []models.TransactionDetail) []models.PeriodBucket {
	return bucketBy(transactions, func(t time.Time) (string, time.Time) {
		start := startOfMonth(t.UTC())
		return start.Format("2006-01"), start
	})
}

// BucketBy dispatches on a bucket name; unknown names fall back to months
func BucketBy(bucket string, transactions []models.TransactionDetail) []models.PeriodBucket {
	switch bucket {
	case BucketDay:
		return BucketByDay(transactions)
	case BucketWeek:
		return BucketByWeek(transactions)
	default:
		return BucketByMonth(transactions)
	}
}

func bucketBy(transactions []models.TransactionDetail, key func(time.Time) (string, time.Time)) []models.PeriodBucket {
	index := make(map[string]int)
	buckets := make([]models.PeriodBucket, 0)

	for _, t := range transactions {
		k, start := key(t.Date)

		i, exists := index[k]
		if !exists {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, models.PeriodBucket{
				Key:     k,
				Start:   start,
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			})
		}

		switch t.Type {
		case models.TransactionTypeIncome:
			buckets[i].Income = buckets[i].Income.Add(t.Amount)
		case models.TransactionTypeExpense:
			buckets[i].Expense = buckets[i].Expense.Add(t.Amount)
		}
		buckets[i].Count++
	}

	for i := range buckets {
		buckets[i].Balance = buckets[i].Income.Sub(buckets[i].Expense)
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Start.Before(buckets[j].Start)
	})
	return buckets
}

// ResolveTransactionDetails attaches concept and provider names to each
// transaction. Names come from the given lists first and from preloaded
// associations second.
func ResolveTransactionDetails(transactions []models.Transaction, concepts []models.Concept, providers []models.Provider) []models.TransactionDetail {
	conceptNames := make(map[uuid.UUID]string, len(concepts))
	for _, c := range concepts {
		conceptNames[c.ID] = c.Name
	}
	providerNames := make(map[uuid.UUID]string, len(providers))
	for _, p := range providers {
		providerNames[p.ID] = p.Name
	}

	details := make([]models.TransactionDetail, 0, len(transactions))
	for _, t := range transactions {
		detail := models.TransactionDetail{
			ID:          t.ID,
			Type:        t.Type,
			Amount:      t.Amount,
			Date:        t.Date.UTC(),
			Status:      t.Status,
			Description: t.Description,
		}

		if name, ok := conceptNames[t.ConceptID]; ok {
			detail.ConceptName = name
		} else if t.Concept != nil {
			detail.ConceptName = t.Concept.Name
		} else {
			detail.ConceptName = unknownConceptName
		}

		if t.ProviderID != nil {
			if name, ok := providerNames[*t.ProviderID]; ok {
				detail.ProviderName = name
			} else if t.Provider != nil {
				detail.ProviderName = t.Provider.Name
			}
		}

		details = append(details, detail)
	}

	return details
}

// BuildSnapshot derives every aggregate over the full set of transactions read
// for a request
func BuildSnapshot(transactions []models.Transaction, concepts []models.Concept, providers []models.Provider) models.FinancialSnapshot {
	details := ResolveTransactionDetails(transactions, concepts, providers)

	return models.FinancialSnapshot{
		Metrics:      CalculateMetrics(details),
		ByConcept:    GroupByConcept(details),
		ByProvider:   GroupByProvider(details),
		Daily:        BucketByDay(details),
		Weekly:       BucketByWeek(details),
		Monthly:      BucketByMonth(details),
		Transactions: details,
	}
}

// TopExpenseDays returns up to n days with the largest expense total, largest first
func TopExpenseDays(daily []models.PeriodBucket, n int) []models.PeriodBucket {
	days := make([]models.PeriodBucket, 0, len(daily))
	for _, d := range daily {
		if d.Expense.IsPositive() {
			days = append(days, d)
		}
	}

	sort.SliceStable(days, func(i, j int) bool {
		if !days[i].Expense.Equal(days[j].Expense) {
			return days[i].Expense.GreaterThan(days[j].Expense)
		}
		return days[i].Start.Before(days[j].Start)
	})

	if len(days) > n {
		days = days[:n]
	}
	return days
}
