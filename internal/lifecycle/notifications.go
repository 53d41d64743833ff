package lifecycle

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/enums"
)

// buildIntents constructs the notification intents for a committed
// transition. Staff actions notify the borrower; borrower actions notify the
// staff roles that need to react.
func buildIntents(action enums.Action, item *models.Item, request *models.ItemRequest) []NotificationIntent {
	link := requestLink(request)

	switch action {
	case enums.ActionSubmit:
		return []NotificationIntent{{
			TargetRoles: []enums.Role{enums.RoleSupervisor, enums.RoleAdmin},
			Type:        enums.NotificationTypeRequestUpdate,
			Title:       "New borrow request",
			Message:     fmt.Sprintf("A borrow request for %q is waiting for approval.", item.Name),
			RequestID:   requestID(request),
			Link:        link,
		}}
	case enums.ActionCancelByBorrower:
		return []NotificationIntent{{
			TargetRoles: []enums.Role{enums.RoleSupervisor, enums.RoleAdmin},
			Type:        enums.NotificationTypeRequestUpdate,
			Title:       "Borrow request cancelled",
			Message:     fmt.Sprintf("The borrow request for %q was cancelled by the borrower.", item.Name),
			RequestID:   requestID(request),
			Link:        link,
		}}
	case enums.ActionApprove:
		return []NotificationIntent{{
			TargetUserIDs: []uuid.UUID{request.BorrowerID},
			Type:          enums.NotificationTypeRequestUpdate,
			Title:         "Request approved",
			Message:       fmt.Sprintf("Your borrow request for %q was approved.", item.Name),
			RequestID:     requestID(request),
			Link:          link,
		}}
	case enums.ActionReject:
		return []NotificationIntent{{
			TargetUserIDs: []uuid.UUID{request.BorrowerID},
			Type:          enums.NotificationTypeRequestUpdate,
			Title:         "Request rejected",
			Message:       fmt.Sprintf("Your borrow request for %q was rejected.", item.Name),
			RequestID:     requestID(request),
			Link:          link,
		}}
	case enums.ActionHandover:
		return []NotificationIntent{{
			TargetUserIDs: []uuid.UUID{request.BorrowerID},
			Type:          enums.NotificationTypeRequestUpdate,
			Title:         "Item handed over",
			Message:       fmt.Sprintf("%q has been handed over to you.", item.Name),
			RequestID:     requestID(request),
			Link:          link,
		}}
	case enums.ActionRequestReturn:
		// The approver who granted the request handles the return; fall back
		// to the supervisor role when no approver was recorded.
		intent := NotificationIntent{
			Type:      enums.NotificationTypeRequestUpdate,
			Title:     "Return started",
			Message:   fmt.Sprintf("The borrower started returning %q.", item.Name),
			RequestID: requestID(request),
			Link:      link,
		}
		if request.ApproverID != nil {
			intent.TargetUserIDs = []uuid.UUID{*request.ApproverID}
		} else {
			intent.TargetRoles = []enums.Role{enums.RoleSupervisor}
		}
		return []NotificationIntent{intent}
	case enums.ActionConfirmReceive:
		return []NotificationIntent{{
			TargetUserIDs: []uuid.UUID{request.BorrowerID},
			Type:          enums.NotificationTypeRequestUpdate,
			Title:         "Return received",
			Message:       fmt.Sprintf("The return of %q was received. Thanks!", item.Name),
			RequestID:     requestID(request),
			Link:          link,
		}}
	case enums.ActionCheckItem:
		return []NotificationIntent{{
			TargetUserIDs: []uuid.UUID{request.BorrowerID},
			Type:          enums.NotificationTypeRequestUpdate,
			Title:         "Request closed",
			Message:       fmt.Sprintf("Your borrow request for %q is closed.", item.Name),
			RequestID:     requestID(request),
			Link:          link,
		}}
	case enums.ActionRepairDone:
		message := fmt.Sprintf("%q is back from repair and available again.", item.Name)
		if item.Status == enums.ItemStatusBroken {
			message = fmt.Sprintf("%q could not be repaired and was retired.", item.Name)
		}
		return []NotificationIntent{{
			TargetRoles: []enums.Role{enums.RoleAdmin},
			Type:        enums.NotificationTypeInventory,
			Title:       "Repair finished",
			Message:     message,
		}}
	default:
		return nil
	}
}

func requestID(request *models.ItemRequest) *int64 {
	if request == nil {
		return nil
	}
	id := request.ID
	return &id
}

func requestLink(request *models.ItemRequest) *string {
	if request == nil {
		return nil
	}
	link := fmt.Sprintf("/requests/%d", request.ID)
	return &link
}
