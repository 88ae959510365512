package models

import (
	"math"
	"time"
)

// TimeframeKind is the tag of the period a question refers to
type TimeframeKind string

const (
	TimeframeAll           TimeframeKind = "all"
	TimeframeSpecificMonth TimeframeKind = "specific_month"
	TimeframeSpecificYear  TimeframeKind = "specific_year"
	TimeframeWeek          TimeframeKind = "week"
	TimeframeLastNMonths   TimeframeKind = "last_n_months"
	TimeframeCurrentMonth  TimeframeKind = "current_month"
	TimeframeCurrentYear   TimeframeKind = "current_year"
)

// Timeframe is a resolved half-open window [Start, End). Start and End are
// zero for TimeframeAll.
type Timeframe struct {
	Kind        TimeframeKind `json:"kind"`
	Start       time.Time     `json:"start,omitzero"`
	End         time.Time     `json:"end,omitzero"`
	Month       time.Month    `json:"month,omitempty"`
	Year        int           `json:"year,omitempty"`
	LastNMonths int           `json:"last_n_months,omitempty"`
}

// Contains reports whether t falls inside the window
func (tf Timeframe) Contains(t time.Time) bool {
	if tf.Kind == TimeframeAll {
		return true
	}
	return !t.Before(tf.Start) && t.Before(tf.End)
}

// ChartType is the visualization suggested for an answer
type ChartType string

const (
	ChartNone ChartType = ""
	ChartPie  ChartType = "pie"
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
)

func IsValidChartType(t ChartType) bool {
	switch t {
	case ChartPie, ChartBar, ChartLine:
		return true
	default:
		return false
	}
}

// VolumeTier caps how many transactions are read for a question
type VolumeTier struct {
	Name  string `json:"name"`
	Limit int    `json:"limit"`
}

var (
	VolumeTierQuick      = VolumeTier{Name: "quick", Limit: 100}
	VolumeTierMonthly    = VolumeTier{Name: "monthly", Limit: 500}
	VolumeTierQuarterly  = VolumeTier{Name: "quarterly", Limit: 1500}
	VolumeTierYearly     = VolumeTier{Name: "yearly", Limit: 3000}
	VolumeTierHistorical = VolumeTier{Name: "historical", Limit: 5000}
)

// QuestionAnalysis is what the classifier extracted from a free-text question
type QuestionAnalysis struct {
	Timeframe        Timeframe  `json:"timeframe"`
	WantsExpense     bool       `json:"wants_expense"`
	WantsIncome      bool       `json:"wants_income"`
	WantsBalance     bool       `json:"wants_balance"`
	ChartType        ChartType  `json:"chart_type,omitempty"`
	TopDailyExpenses bool       `json:"top_daily_expenses,omitempty"`
	VolumeTier       VolumeTier `json:"volume_tier"`
}

// ChartPoint is one labelled value of a chart series
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSpec describes a chart the client renders
type ChartSpec struct {
	Type  ChartType    `json:"type"`
	Title string       `json:"title"`
	Data  []ChartPoint `json:"data"`
}

// IsWellFormed requires a known type, at least one point and finite
// non-negative values
func (c *ChartSpec) IsWellFormed() bool {
	if c == nil || !IsValidChartType(c.Type) || len(c.Data) == 0 {
		return false
	}
	for _, p := range c.Data {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) || p.Value < 0 {
			return false
		}
	}
	return true
}
