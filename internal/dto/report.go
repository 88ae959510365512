package dto

// SummaryReportQuery holds the query parameters of the summary report
type SummaryReportQuery struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	Bucket    string `query:"bucket"`
}
