package handlers

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"

	"finance-admin/internal/dto"
	"finance-admin/internal/errors"
	"finance-admin/internal/services"

	"github.com/labstack/echo/v4"
)

// ChatbotHandler answers natural-language questions about the finances.
// It answers with its own {success, message} body instead of the coded error envelope.
type ChatbotHandler struct {
	chatbotService services.ChatbotServiceInterface
}

func NewChatbotHandler(chatbotService services.ChatbotServiceInterface) *ChatbotHandler {
	return &ChatbotHandler{chatbotService: chatbotService}
}

func chatbotError(c echo.Context, status int, code errors.ErrorCode) error {
	return c.JSON(status, dto.ChatbotErrorResponse{
		Success: false,
		Message: errors.GetErrorMessage(code),
	})
}

// Ask handles every method on the chatbot route; only POST is served
// @Summary Ask the financial assistant
// @Description Answers in Spanish using the stored transactions. When the language model is unavailable the answer is built from templates and data.source is "fallback".
// @Tags Chatbot
// @Accept json
// @Produce json
// @Param request body dto.ChatbotRequest true "Question"
// @Success 200 {object} dto.ChatbotResponse
// @Failure 400 {object} dto.ChatbotErrorResponse "Missing or blank question"
// @Failure 405 {object} dto.ChatbotErrorResponse "Method not allowed"
// @Failure 500 {object} dto.ChatbotErrorResponse "Financial data unavailable"
// @Router /chatbot [post]
func (h *ChatbotHandler) Ask(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		c.Response().Header().Set(echo.HeaderAllow, http.MethodPost)
		return chatbotError(c, http.StatusMethodNotAllowed, errors.ChatbotMethodNotAllowed)
	}

	var req dto.ChatbotRequest
	if err := c.Bind(&req); err != nil {
		return chatbotError(c, http.StatusBadRequest, errors.ChatbotInvalidQuestion)
	}
	if strings.TrimSpace(req.Question) == "" {
		return chatbotError(c, http.StatusBadRequest, errors.ChatbotInvalidQuestion)
	}

	resp, err := h.chatbotService.Ask(c.Request().Context(), req.Question)
	if err != nil {
		if stderrors.Is(err, services.ErrEmptyQuestion) {
			return chatbotError(c, http.StatusBadRequest, errors.ChatbotInvalidQuestion)
		}
		slog.Error("chatbot request failed",
			slog.String("trace_id", getTraceID(c)),
			slog.Any("error", err),
		)
		return chatbotError(c, http.StatusInternalServerError, errors.ChatbotDataUnavailable)
	}

	return c.JSON(http.StatusOK, resp)
}
