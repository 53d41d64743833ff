package controllers

import (
	"net/http"
	"time"

	"github.com/campuslend/campuslend-backend/api/responses"
	"github.com/campuslend/campuslend-backend/api/validators"
	"github.com/campuslend/campuslend-backend/internal/lifecycle"
	"github.com/campuslend/campuslend-backend/internal/requests"
	"github.com/campuslend/campuslend-backend/pkg/enums"
	"github.com/campuslend/campuslend-backend/pkg/logger"
)

type submitRequestBody struct {
	ItemID          int64     `json:"item_id" validate:"required,gt=0"`
	StartBorrowDate time.Time `json:"start_borrow_date" validate:"required"`
	EndBorrowDate   time.Time `json:"end_borrow_date" validate:"required,gtfield=StartBorrowDate"`
	IsUrgent        bool      `json:"is_urgent"`
	Amount          int       `json:"amount" validate:"omitempty,gt=0"`
	Message         *string   `json:"message" validate:"omitempty,max=2000"`
}

// SubmitRequest opens a borrow request for an available item.
func SubmitRequest(engine lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body submitRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := engine.ApplyTransition(r.Context(), lifecycle.TransitionInput{
			Action:    enums.ActionSubmit,
			ActorID:   act.ID,
			ActorRole: act.Role,
			Payload: lifecycle.TransitionPayload{
				ItemID:          body.ItemID,
				StartBorrowDate: body.StartBorrowDate,
				EndBorrowDate:   body.EndBorrowDate,
				IsUrgent:        body.IsUrgent,
				Amount:          body.Amount,
				Message:         body.Message,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newTransitionView(result))
	}
}

// CancelRequest withdraws the borrower's own pending request.
func CancelRequest(engine lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(engine, logg, enums.ActionCancelByBorrower)
}

// RequestReturn flags a borrowed item as ready to hand back.
func RequestReturn(engine lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(engine, logg, enums.ActionRequestReturn)
}

// transitionHandler covers the body-less request transitions that only need
// the route id and the actor.
func transitionHandler(engine lifecycle.Service, logg *logger.Logger, action enums.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := validators.ParsePathID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := engine.ApplyTransition(r.Context(), lifecycle.TransitionInput{
			RequestID: requestID,
			Action:    action,
			ActorID:   act.ID,
			ActorRole: act.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newTransitionView(result))
	}
}

// ListOwnRequests returns the caller's borrow history, newest first.
func ListOwnRequests(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.OwnRequests(r.Context(), act.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, requestViews(rows))
	}
}

// RequestDetail returns one request. Borrowers only see their own.
func RequestDetail(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := validators.ParsePathID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Detail(r.Context(), requestID, act.ID, act.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newRequestView(row))
	}
}
