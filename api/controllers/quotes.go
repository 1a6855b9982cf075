package controllers

import (
	"net/http"

	"github.com/tilestudio-il/tilestudio-backend/api/middleware"
	"github.com/tilestudio-il/tilestudio-backend/api/responses"
	"github.com/tilestudio-il/tilestudio-backend/api/validators"
	"github.com/tilestudio-il/tilestudio-backend/internal/quotes"
	pkgerrors "github.com/tilestudio-il/tilestudio-backend/pkg/errors"
	"github.com/tilestudio-il/tilestudio-backend/pkg/logger"
)

const (
	quoteReceivedMessage   = "הבקשה התקבלה בהצלחה! ניצור איתך קשר בהקדם"
	quoteInvalidMessage    = "חלק מהשדות אינם תקינים"
	quotePersistErrMessage = "אירעה שגיאה בשמירת הבקשה. אנא נסו שוב מאוחר יותר"
)

// QuoteSubmit handles the combined quote-form payload. Responses use the
// form's own message shapes rather than the generic error body.
func QuoteSubmit(svc *quotes.Service, trustProxy bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteJSON(w, http.StatusInternalServerError, map[string]string{
				"message": quotePersistErrMessage,
			})
			return
		}

		var submission quotes.Submission
		if err := validators.DecodeJSONBody(r, &submission); err != nil {
			responses.WriteJSON(w, http.StatusBadRequest, map[string]any{
				"message": quoteInvalidMessage,
				"errors":  map[string]string{"body": "גוף הבקשה אינו תקין"},
			})
			return
		}

		record, err := svc.Submit(r.Context(), submission, quotes.ClientMeta{
			IP:        middleware.ClientIP(r, trustProxy),
			UserAgent: r.UserAgent(),
		})
		if err != nil {
			typed := pkgerrors.As(err)
			if typed != nil && typed.Code() == pkgerrors.CodeValidation {
				responses.WriteJSON(w, http.StatusBadRequest, map[string]any{
					"message": quoteInvalidMessage,
					"errors":  typed.Details(),
				})
				return
			}
			if logg != nil {
				logg.Error(r.Context(), "quote submission failed", err)
			}
			responses.WriteJSON(w, http.StatusInternalServerError, map[string]string{
				"message": quotePersistErrMessage,
			})
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]string{
			"message": quoteReceivedMessage,
			"id":      record.ID,
		})
	}
}
