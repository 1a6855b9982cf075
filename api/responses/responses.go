package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/tilestudio-il/tilestudio-backend/pkg/errors"
	"github.com/tilestudio-il/tilestudio-backend/pkg/logger"
)

// WriteJSON writes the payload as-is. The site's client consumes plain
// shapes ({photos, total}, {photo}, ...) rather than an envelope.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}

// WriteRaw writes a pre-encoded JSON document verbatim.
func WriteRaw(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to write response","err":"%v"}`, err)
	}
}

// WriteError maps a typed error to its HTTP status and `{error: message}`
// body. Internal detail stays in the logs; the body carries the code's
// public message, or the error's own message for codes that allow it.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if typed.Code() == pkgerrors.CodeNotFound {
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := map[string]any{"error": msg}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload["details"] = details
		}
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)
		errCtx := logg.WithFields(ctx, map[string]any{
			"error":       dump.TopMessage,
			"error_code":  dump.Code,
			"error_chain": dump.Chain,
		})
		logg.Error(errCtx, "request.error", err)
	}

	WriteJSON(w, meta.HTTPStatus, payload)
}
