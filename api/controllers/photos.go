package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tilestudio-il/tilestudio-backend/api/responses"
	"github.com/tilestudio-il/tilestudio-backend/api/validators"
	"github.com/tilestudio-il/tilestudio-backend/internal/catalog"
	pkgerrors "github.com/tilestudio-il/tilestudio-backend/pkg/errors"
	"github.com/tilestudio-il/tilestudio-backend/pkg/logger"
)

const maxUploadMemory = 32 << 20

// PhotoList returns the catalog, optionally filtered by category. A
// truthy force parameter triggers an immediate re-sync.
func PhotoList(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := r.URL.Query()
		photos := svc.List(r.Context(), catalog.ListParams{
			Category: query.Get("category"),
			Force:    query.Get("force") == "true" || query.Get("force") == "1",
		})

		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"photos": photos,
			"total":  len(photos),
		})
	}
}

// PhotoGet returns one photo by id.
func PhotoGet(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		photo, err := svc.Get(r.Context(), chi.URLParam(r, "photoId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, photo)
	}
}

// PhotoUpload accepts a multipart form with the file and its metadata.
func PhotoUpload(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file is required").
					WithDetails(map[string]string{"file": "שדה חובה"}))
			return
		}
		defer file.Close()

		photo, err := svc.Upload(r.Context(), catalog.UploadInput{
			File:        file,
			FileName:    header.Filename,
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Category:    r.FormValue("category"),
			Tags:        r.FormValue("tags"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, map[string]any{"photo": photo})
	}
}

// PhotoPatch merges the provided subset of mutable fields. Immutable keys
// in the body are ignored.
func PhotoPatch(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var input catalog.PatchInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		photo, err := svc.Patch(r.Context(), chi.URLParam(r, "photoId"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, photo)
	}
}

// PhotoDelete removes the photo from the image host and then locally.
func PhotoDelete(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "photoId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
