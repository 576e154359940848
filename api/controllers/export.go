package controllers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avilaruiz/billbook-backend/api/responses"
	"github.com/avilaruiz/billbook-backend/api/validators"
	"github.com/avilaruiz/billbook-backend/internal/bills"
	"github.com/avilaruiz/billbook-backend/internal/export"
	pkgerrors "github.com/avilaruiz/billbook-backend/pkg/errors"
	"github.com/avilaruiz/billbook-backend/pkg/logger"
)

// BillExportPDF renders the target bill's full group as a PDF document.
func BillExportPDF(svc BillsService, renderer *export.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || renderer == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "export unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "billId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		detail, err := svc.GetBill(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pdf, err := renderer.Render(detail.Group)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render bill pdf"))
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdfFilename(detail)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdf)
	}
}

func pdfFilename(detail *bills.BillDetail) string {
	if detail.Bill.GroupID != "" {
		return detail.Bill.GroupID + ".pdf"
	}
	return fmt.Sprintf("bill_%d.pdf", detail.Bill.ID)
}
