package controllers

import (
	"net/http"

	"github.com/campuslend/campuslend-backend/api/responses"
	"github.com/campuslend/campuslend-backend/api/validators"
	"github.com/campuslend/campuslend-backend/internal/lifecycle"
	"github.com/campuslend/campuslend-backend/internal/requests"
	"github.com/campuslend/campuslend-backend/pkg/enums"
	"github.com/campuslend/campuslend-backend/pkg/logger"
)

type decisionBody struct {
	Message *string `json:"message" validate:"omitempty,max=2000"`
}

type checkItemBody struct {
	Repair bool    `json:"repair"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
}

type repairDoneBody struct {
	Broken bool    `json:"broken"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
}

// ApproveRequest grants a pending borrow request.
func ApproveRequest(engine lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return decisionHandler(engine, logg, enums.ActionApprove)
}

// RejectRequest declines a pending borrow request and frees the item.
func RejectRequest(engine lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return decisionHandler(engine, logg, enums.ActionReject)
}

func decisionHandler(engine lifecycle.Service, logg *logger.Logger, action enums.Action) http.HandlerFunc {
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

		var body decisionBody
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		result, err := engine.ApplyTransition(r.Context(), lifecycle.TransitionInput{
			RequestID: requestID,
			Action:    action,
			ActorID:   act.ID,
			ActorRole: act.Role,
			Payload:   lifecycle.TransitionPayload{Message: body.Message},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newTransitionView(result))
	}
}

// HandoverRequest records that the item left the storage with the borrower.
func HandoverRequest(engine lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(engine, logg, enums.ActionHandover)
}

// ConfirmReceive records that the item physically came back.
func ConfirmReceive(engine lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body decisionBody
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		result, err := engine.ApplyTransition(r.Context(), lifecycle.TransitionInput{
			RequestID: requestID,
			Action:    enums.ActionConfirmReceive,
			ActorID:   act.ID,
			ActorRole: act.Role,
			Payload:   lifecycle.TransitionPayload{Message: body.Message},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newTransitionView(result))
	}
}

// CheckItem closes a returned request after inspection; repair=true routes
// the item into reparation instead of back to the shelf.
func CheckItem(engine lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body checkItemBody
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		result, err := engine.ApplyTransition(r.Context(), lifecycle.TransitionInput{
			RequestID: requestID,
			Action:    enums.ActionCheckItem,
			ActorID:   act.ID,
			ActorRole: act.Role,
			Payload:   lifecycle.TransitionPayload{Repair: body.Repair, Notes: body.Notes},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newTransitionView(result))
	}
}

// RepairDone closes the open reparation of an item; broken=true retires it.
func RepairDone(engine lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := validators.ParsePathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body repairDoneBody
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		result, err := engine.ApplyTransition(r.Context(), lifecycle.TransitionInput{
			Action:    enums.ActionRepairDone,
			ActorID:   act.ID,
			ActorRole: act.Role,
			Payload:   lifecycle.TransitionPayload{ItemID: itemID, Broken: body.Broken, Notes: body.Notes},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newTransitionView(result))
	}
}

// PendingRequests lists the approval queue, urgent first.
func PendingRequests(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.PendingQueue(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, requestViews(rows))
	}
}

// OpenRequests lists every request that still holds an item.
func OpenRequests(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.OpenRequests(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, requestViews(rows))
	}
}
