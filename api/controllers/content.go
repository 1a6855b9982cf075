package controllers

import (
	"net/http"

	"github.com/tilestudio-il/tilestudio-backend/api/responses"
	"github.com/tilestudio-il/tilestudio-backend/internal/content"
	pkgerrors "github.com/tilestudio-il/tilestudio-backend/pkg/errors"
	"github.com/tilestudio-il/tilestudio-backend/pkg/logger"
)

// Projects serves the bundled completed-projects document.
func Projects(svc *content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveContent(svc.Projects, logg)(w, r)
	}
}

// Testimonials serves the bundled testimonials document.
func Testimonials(svc *content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveContent(svc.Testimonials, logg)(w, r)
	}
}

func serveContent(load func() ([]byte, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := load()
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load content file"))
			return
		}
		responses.WriteRaw(w, http.StatusOK, data)
	}
}
