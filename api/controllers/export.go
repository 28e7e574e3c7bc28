package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aromaten/aromaten-backend/api/responses"
	"github.com/aromaten/aromaten-backend/internal/export"
	pkgerrors "github.com/aromaten/aromaten-backend/pkg/errors"
	"github.com/aromaten/aromaten-backend/pkg/logger"
)

// AdminExportProducts streams the full catalog as a CSV download.
func AdminExportProducts(svc *export.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "export service unavailable"))
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(time.Now())))

		if err := svc.WriteProductsCSV(r.Context(), w); err != nil {
			// Headers are already out; log and abort the stream.
			if logg != nil {
				logg.Error(r.Context(), "export.products.failed", err)
			}
		}
	}
}
