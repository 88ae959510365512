package dto

import "finance-admin/internal/models"

const (
	AnswerSourceAI       = "ai"
	AnswerSourceFallback = "fallback"
)

// ChatbotRequest is the body of POST /api/chatbot
type ChatbotRequest struct {
	Question string `json:"question"`
}

// PercentageItem is one slice of a percentage breakdown
type PercentageItem struct {
	Label      string  `json:"label"`
	Percentage float64 `json:"percentage"`
}

// ChatbotData is the structured part of a chatbot answer. Metrics and
// percentages are always computed locally; Insights carries whatever metric
// map the model returned.
type ChatbotData struct {
	Metrics     models.FinancialMetrics `json:"metrics"`
	Percentages []PercentageItem        `json:"percentages"`
	ByConcept   []models.GroupTotal     `json:"byConcept"`
	ByProvider  []models.GroupTotal     `json:"byProvider"`
	Chart       *models.ChartSpec       `json:"chart,omitempty"`
	Insights    map[string]interface{}  `json:"insights,omitempty"`
	Period      string                  `json:"period"`
	Analysis    models.QuestionAnalysis `json:"analysis"`
	Source      string                  `json:"source"`
}

// ChatbotResponse is the success envelope of the chatbot endpoint
type ChatbotResponse struct {
	Success  bool         `json:"success"`
	Response string       `json:"response"`
	Data     *ChatbotData `json:"data"`
}

// ChatbotErrorResponse is the failure envelope of the chatbot endpoint
type ChatbotErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
