package controllers

import (
	"net/http"

	"github.com/campuslend/campuslend-backend/api/responses"
	"github.com/campuslend/campuslend-backend/api/validators"
	"github.com/campuslend/campuslend-backend/internal/inventory"
	"github.com/campuslend/campuslend-backend/pkg/logger"
)

type createItemBody struct {
	Name       string  `json:"name" validate:"required,max=255"`
	Model      *string `json:"model" validate:"omitempty,max=255"`
	Brand      *string `json:"brand" validate:"omitempty,max=255"`
	LocationID int64   `json:"location_id" validate:"required,gt=0"`
	Consumable bool    `json:"consumable"`
	Amount     int     `json:"amount" validate:"omitempty,gte=0"`
}

type updateItemBody struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=255"`
	Model      *string `json:"model" validate:"omitempty,max=255"`
	Brand      *string `json:"brand" validate:"omitempty,max=255"`
	LocationID *int64  `json:"location_id" validate:"omitempty,gt=0"`
	Amount     *int    `json:"amount" validate:"omitempty,gte=0"`
}

func AdminCreateItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createItemBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), inventory.CreateItemInput{
			Name:       validators.SanitizeString(body.Name, 255),
			Model:      body.Model,
			Brand:      body.Brand,
			LocationID: body.LocationID,
			Consumable: body.Consumable,
			Amount:     body.Amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newItemView(item))
	}
}

func AdminUpdateItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ParsePathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateItemBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItem(r.Context(), itemID, inventory.UpdateItemInput{
			Name:       body.Name,
			Model:      body.Model,
			Brand:      body.Brand,
			LocationID: body.LocationID,
			Amount:     body.Amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newItemView(item))
	}
}

func AdminGetItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ParsePathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newItemView(item))
	}
}

func AdminListItems(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly, err := validators.ParseQueryBool(r, "activeOnly", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		locationID, hasLocation, err := validators.ParseQueryInt64(r, "locationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := inventory.ItemFilters{ActiveOnly: activeOnly}
		if hasLocation {
			filters.LocationID = &locationID
		}

		items, err := svc.ListItems(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, itemViews(items))
	}
}

// AdminDeactivateItem retires an item from the catalogue. Blocked while the
// item is held by an open request.
func AdminDeactivateItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ParsePathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeactivateItem(r.Context(), itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": itemID, "active": false})
	}
}
