package dto

// ImportRowError describes why one CSV row was rejected. Row numbers are
// 1-based and count the header line.
type ImportRowError struct {
	Row     int      `json:"row"`
	Errors  []string `json:"errors"`
	RawLine []string `json:"raw,omitempty"`
}

// ImportResult is returned by the CSV import endpoint
type ImportResult struct {
	DryRun           bool             `json:"dryRun"`
	TotalRows        int              `json:"totalRows"`
	ValidRows        int              `json:"validRows"`
	ImportedRows     int              `json:"importedRows"`
	CreatedProviders []string         `json:"createdProviders,omitempty"`
	Errors           []ImportRowError `json:"errors,omitempty"`
}

// HasErrors reports whether any row failed validation
func (r *ImportResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// DemoSeedResult reports what the development seeder wrote
type DemoSeedResult struct {
	Months              int `json:"months"`
	ConceptsCreated     int `json:"conceptsCreated"`
	ProvidersCreated    int `json:"providersCreated"`
	TransactionsCreated int `json:"transactionsCreated"`
}
