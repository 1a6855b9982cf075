package controllers

import (
	"net/http"

	"github.com/tilestudio-il/tilestudio-backend/api/responses"
	"github.com/tilestudio-il/tilestudio-backend/internal/quotes"
	pkgerrors "github.com/tilestudio-il/tilestudio-backend/pkg/errors"
	"github.com/tilestudio-il/tilestudio-backend/pkg/logger"
)

type submissionLister interface {
	ListLog() ([]quotes.LogEntry, error)
}

// SubmissionList returns the summary log of persisted quote requests,
// newest first. Read-only; statuses are managed outside this system.
func SubmissionList(repo submissionLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := repo.ListLog()
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read submissions log"))
			return
		}

		// Stored oldest first; serve newest first.
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}

		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"submissions": entries,
			"total":       len(entries),
		})
	}
}
