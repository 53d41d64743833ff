package enums

import "fmt"

// Action names one lifecycle transition applied to the coupled
// (ItemStatus, RequestStatus) pair.
type Action string

const (
	ActionSubmit           Action = "submit"
	ActionApprove          Action = "approve"
	ActionReject           Action = "reject"
	ActionHandover         Action = "handover"
	ActionRequestReturn    Action = "request_return"
	ActionConfirmReceive   Action = "confirm_receive"
	ActionCheckItem        Action = "check_item"
	ActionCancelByBorrower Action = "cancel_by_borrower"
	ActionRepairDone       Action = "repair_done"
)

var validActions = []Action{
	ActionSubmit,
	ActionApprove,
	ActionReject,
	ActionHandover,
	ActionRequestReturn,
	ActionConfirmReceive,
	ActionCheckItem,
	ActionCancelByBorrower,
	ActionRepairDone,
}

// IsValid reports whether the value matches a canonical action.
func (a Action) IsValid() bool {
	for _, candidate := range validActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAction converts the raw string to Action.
func ParseAction(value string) (Action, error) {
	for _, candidate := range validActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid action %q", value)
}
