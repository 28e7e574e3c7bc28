package controllers

import (
	"errors"
	"net/http"

	"github.com/aromaten/aromaten-backend/api/responses"
	pkgerrors "github.com/aromaten/aromaten-backend/pkg/errors"
	"github.com/aromaten/aromaten-backend/pkg/logger"
	"github.com/aromaten/aromaten-backend/pkg/storage/local"
)

// AdminUploadImage accepts a multipart image and stores it for catalog use.
func AdminUploadImage(store *local.Store, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload storage unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<20))
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart payload"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		stored, err := store.Save(r.Context(), header.Header.Get("Content-Type"), file)
		if err != nil {
			switch {
			case errors.Is(err, local.ErrUnsupportedType):
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported image type"))
			case errors.Is(err, local.ErrTooLarge):
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file exceeds the upload limit"))
			default:
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store upload"))
			}
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, stored)
	}
}
