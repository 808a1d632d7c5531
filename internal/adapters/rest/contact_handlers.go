package rest

import (
	"net/http"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/port"
	"travel-web/internal/core/port/usecases_port"
)

// Сообщения, которые фронтенд показывает пользователю как есть.
const (
	NewsletterFailedMessage = "Something went wrong. Please try again."
	InquiryFailedMessage    = "Failed to send inquiry. Try again."
)

type ContactHandler struct {
	newsletterUC usecases_port.SubscribeNewsletterUseCasePort
	inquiryUC    usecases_port.SubmitInquiryUseCasePort
}

func NewContactHandler(
	newsletterUC usecases_port.SubscribeNewsletterUseCasePort,
	inquiryUC usecases_port.SubmitInquiryUseCasePort,
) *ContactHandler {
	return &ContactHandler{newsletterUC: newsletterUC, inquiryUC: inquiryUC}
}

// SubscribeNewsletter обрабатывает POST /api/v1/newsletter/subscribe
func (h *ContactHandler) SubscribeNewsletter(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubscribeNewsletter"})

	var reqDTO NewsletterRequest
	if err := decodeJSON(r, &reqDTO); err != nil {
		logger.Warn("Failed to decode newsletter request", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(reqDTO); err != nil {
		logger.Warn("Newsletter request failed validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if err := h.newsletterUC.Execute(r.Context(), reqDTO.toDomain()); err != nil {
		logger.Error("Subscribe newsletter use case failed", err, nil)
		WriteJSONError(w, http.StatusBadGateway, NewsletterFailedMessage)
		return
	}

	RespondWithJSON(w, http.StatusCreated, MessageResponse{Message: "Successfully subscribed!"})
}

// SubmitInquiry обрабатывает POST /api/v1/inquiries
func (h *ContactHandler) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubmitInquiry"})

	var reqDTO InquiryRequest
	if err := decodeJSON(r, &reqDTO); err != nil {
		logger.Warn("Failed to decode inquiry request", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(reqDTO); err != nil {
		logger.Warn("Inquiry request failed validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"item_type": reqDTO.Type, "item_id": string(reqDTO.ID)})
	if err := h.inquiryUC.Execute(r.Context(), reqDTO.toDomain()); err != nil {
		handlerLogger.Error("Submit inquiry use case failed", err, nil)
		WriteJSONError(w, http.StatusBadGateway, InquiryFailedMessage)
		return
	}

	handlerLogger.Info("Inquiry forwarded", nil)
	RespondWithJSON(w, http.StatusCreated, MessageResponse{Message: "Inquiry sent successfully! Check your email."})
}
