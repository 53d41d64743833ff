// Package registry is the single source of truth for legal lifecycle
// transitions. It is pure: no I/O, no clock, no side effects.
package registry

import (
	"fmt"

	"github.com/campuslend/campuslend-backend/pkg/enums"
)

// JointState is the coupled (ItemStatus, RequestStatus) pair. Both machines
// always move together; the registry only enumerates legal joint moves.
type JointState struct {
	Item    enums.ItemStatus
	Request enums.RequestStatus
}

// Flags carries the boolean modifiers some actions accept.
type Flags struct {
	// Repair selects the repairing branch of the item check.
	Repair bool
	// Broken marks a finished repair as unrecoverable.
	Broken bool
}

// InvalidTransitionError reports an action attempted outside its
// precondition, carrying the observed states for diagnostics.
type InvalidTransitionError struct {
	Action         enums.Action
	CurrentItem    enums.ItemStatus
	CurrentRequest enums.RequestStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("action %s is not valid for item status %s and request status %s",
		e.Action, e.CurrentItem, e.CurrentRequest)
}

// anyItemStatus marks rules that accept every item status.
const anyItemStatus = enums.ItemStatus(0)

// keepItemStatus marks rules that leave the item status unchanged.
const keepItemStatus = enums.ItemStatus(-1)

type rule struct {
	itemBefore    enums.ItemStatus
	requestBefore enums.RequestStatus
	itemAfter     enums.ItemStatus
	requestAfter  enums.RequestStatus
}

// transitions maps each action to its precondition and effect. RepairDone is
// item-only and handled separately because no request participates.
var transitions = map[enums.Action]func(Flags) rule{
	enums.ActionSubmit: func(Flags) rule {
		return rule{
			itemBefore:    enums.ItemStatusAvailable,
			requestBefore: enums.RequestStatusPendingApproval,
			itemAfter:     enums.ItemStatusPendingBorrow,
			requestAfter:  enums.RequestStatusPendingApproval,
		}
	},
	enums.ActionApprove: func(Flags) rule {
		return rule{
			itemBefore:    enums.ItemStatusPendingBorrow,
			requestBefore: enums.RequestStatusPendingApproval,
			itemAfter:     enums.ItemStatusBorrowed,
			requestAfter:  enums.RequestStatusApproved,
		}
	},
	enums.ActionReject: func(Flags) rule {
		return rule{
			itemBefore:    enums.ItemStatusPendingBorrow,
			requestBefore: enums.RequestStatusPendingApproval,
			itemAfter:     enums.ItemStatusAvailable,
			requestAfter:  enums.RequestStatusRejected,
		}
	},
	enums.ActionHandover: func(Flags) rule {
		return rule{
			itemBefore:    keepItemStatus,
			requestBefore: enums.RequestStatusApproved,
			itemAfter:     keepItemStatus,
			requestAfter:  enums.RequestStatusAwaitingHandover,
		}
	},
	enums.ActionRequestReturn: func(Flags) rule {
		return rule{
			itemBefore:    enums.ItemStatusBorrowed,
			requestBefore: enums.RequestStatusAwaitingHandover,
			itemAfter:     enums.ItemStatusPendingReturn,
			requestAfter:  enums.RequestStatusAwaitingReturn,
		}
	},
	enums.ActionConfirmReceive: func(Flags) rule {
		// The item stays in PendingReturn until the physical check decides
		// whether it goes back on the shelf or into repair.
		return rule{
			itemBefore:    enums.ItemStatusPendingReturn,
			requestBefore: enums.RequestStatusAwaitingReturn,
			itemAfter:     keepItemStatus,
			requestAfter:  enums.RequestStatusCompleted,
		}
	},
	enums.ActionCheckItem: func(f Flags) rule {
		after := enums.ItemStatusAvailable
		if f.Repair {
			after = enums.ItemStatusRepairing
		}
		return rule{
			itemBefore:    anyItemStatus,
			requestBefore: enums.RequestStatusCompleted,
			itemAfter:     after,
			requestAfter:  enums.RequestStatusClosed,
		}
	},
	enums.ActionCancelByBorrower: func(Flags) rule {
		return rule{
			itemBefore:    enums.ItemStatusPendingBorrow,
			requestBefore: enums.RequestStatusPendingApproval,
			itemAfter:     enums.ItemStatusAvailable,
			requestAfter:  enums.RequestStatusCancelled,
		}
	},
}

// ValidTransition returns the joint state an action moves to, or an
// *InvalidTransitionError when the current state does not satisfy the
// action's precondition.
//
// Submit is the one action with no pre-existing request: callers pass the
// item's current status and RequestStatusPendingApproval as the request
// status of the request row being created.
func ValidTransition(current JointState, action enums.Action, flags Flags) (JointState, error) {
	if action == enums.ActionRepairDone {
		return repairDone(current, flags)
	}

	ruleFn, ok := transitions[action]
	if !ok {
		return JointState{}, &InvalidTransitionError{
			Action:         action,
			CurrentItem:    current.Item,
			CurrentRequest: current.Request,
		}
	}
	r := ruleFn(flags)

	if current.Request != r.requestBefore {
		return JointState{}, &InvalidTransitionError{
			Action:         action,
			CurrentItem:    current.Item,
			CurrentRequest: current.Request,
		}
	}
	if r.itemBefore != anyItemStatus && r.itemBefore != keepItemStatus && current.Item != r.itemBefore {
		return JointState{}, &InvalidTransitionError{
			Action:         action,
			CurrentItem:    current.Item,
			CurrentRequest: current.Request,
		}
	}

	next := JointState{Item: r.itemAfter, Request: r.requestAfter}
	if r.itemAfter == keepItemStatus {
		next.Item = current.Item
	}
	return next, nil
}

// repairDone closes the item's repair cycle. No request participates, so the
// request side of the joint state passes through untouched.
func repairDone(current JointState, flags Flags) (JointState, error) {
	if current.Item != enums.ItemStatusRepairing {
		return JointState{}, &InvalidTransitionError{
			Action:         enums.ActionRepairDone,
			CurrentItem:    current.Item,
			CurrentRequest: current.Request,
		}
	}
	next := current
	if flags.Broken {
		next.Item = enums.ItemStatusBroken
	} else {
		next.Item = enums.ItemStatusAvailable
	}
	return next, nil
}
