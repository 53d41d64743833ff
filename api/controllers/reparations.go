package controllers

import (
	"net/http"
	"strings"

	"github.com/campuslend/campuslend-backend/api/responses"
	"github.com/campuslend/campuslend-backend/api/validators"
	"github.com/campuslend/campuslend-backend/internal/reparations"
	"github.com/campuslend/campuslend-backend/pkg/db/models"
	pkgerrors "github.com/campuslend/campuslend-backend/pkg/errors"
	"github.com/campuslend/campuslend-backend/pkg/logger"
)

// ListReparations returns open repairs by default; ?state=closed switches to
// the finished ones.
func ListReparations(svc reparations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := strings.TrimSpace(r.URL.Query().Get("state"))

		var rows []models.Reparation
		var err error
		switch state {
		case "", "open":
			rows, err = svc.Open(r.Context())
		case "closed":
			rows, err = svc.Closed(r.Context())
		default:
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "state must be open or closed").WithDetails(map[string]any{"field": "state"}))
			return
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reparationViews(rows))
	}
}

// ItemReparationHistory returns every repair recorded for one item.
func ItemReparationHistory(svc reparations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ParsePathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.History(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reparationViews(rows))
	}
}
