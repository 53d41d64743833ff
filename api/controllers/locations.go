package controllers

import (
	"net/http"

	"github.com/campuslend/campuslend-backend/api/responses"
	"github.com/campuslend/campuslend-backend/api/validators"
	"github.com/campuslend/campuslend-backend/internal/inventory"
	"github.com/campuslend/campuslend-backend/pkg/logger"
)

type locationBody struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Building string  `json:"building" validate:"required,max=255"`
	Room     *string `json:"room" validate:"omitempty,max=64"`
}

func AdminCreateLocation(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body locationBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loc, err := svc.CreateLocation(r.Context(), inventory.LocationInput{
			Name:     validators.SanitizeString(body.Name, 255),
			Building: validators.SanitizeString(body.Building, 255),
			Room:     body.Room,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newLocationView(loc))
	}
}

func AdminUpdateLocation(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID, err := validators.ParsePathID(r, "locationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body locationBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loc, err := svc.UpdateLocation(r.Context(), locationID, inventory.LocationInput{
			Name:     validators.SanitizeString(body.Name, 255),
			Building: validators.SanitizeString(body.Building, 255),
			Room:     body.Room,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newLocationView(loc))
	}
}

func AdminListLocations(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locs, err := svc.ListLocations(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, locationViews(locs))
	}
}

// AdminDeleteLocation removes a location. Blocked while items remain there.
func AdminDeleteLocation(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID, err := validators.ParsePathID(r, "locationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteLocation(r.Context(), locationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": locationID, "deleted": true})
	}
}
