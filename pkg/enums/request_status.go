package enums

import "fmt"

// RequestStatus is the lifecycle state of a borrow request. Values are stable.
type RequestStatus int

const (
	RequestStatusPendingApproval  RequestStatus = 1
	RequestStatusApproved         RequestStatus = 2
	RequestStatusRejected         RequestStatus = 3
	RequestStatusAwaitingHandover RequestStatus = 4
	RequestStatusAwaitingReturn   RequestStatus = 5
	RequestStatusCompleted        RequestStatus = 6
	RequestStatusClosed           RequestStatus = 7
	RequestStatusCancelled        RequestStatus = 8
)

var requestStatusNames = map[RequestStatus]string{
	RequestStatusPendingApproval:  "pending_approval",
	RequestStatusApproved:         "approved",
	RequestStatusRejected:         "rejected",
	RequestStatusAwaitingHandover: "awaiting_handover",
	RequestStatusAwaitingReturn:   "awaiting_return",
	RequestStatusCompleted:        "completed",
	RequestStatusClosed:           "closed",
	RequestStatusCancelled:        "cancelled",
}

// NonTerminalRequestStatuses are the statuses counted as "active" for the
// one-active-request-per-item invariant.
var NonTerminalRequestStatuses = []RequestStatus{
	RequestStatusPendingApproval,
	RequestStatusApproved,
	RequestStatusAwaitingHandover,
	RequestStatusAwaitingReturn,
}

// IsValid reports whether the value is one of the canonical request statuses.
func (s RequestStatus) IsValid() bool {
	_, ok := requestStatusNames[s]
	return ok
}

// IsOpen reports membership in NonTerminalRequestStatuses, the set the
// one-active-request-per-item invariant counts. Note Completed is neither
// open nor terminal.
func (s RequestStatus) IsOpen() bool {
	for _, open := range NonTerminalRequestStatuses {
		if s == open {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a request in this status is immutable history.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case RequestStatusRejected, RequestStatusClosed, RequestStatusCancelled:
		return true
	default:
		return false
	}
}

func (s RequestStatus) String() string {
	if name, ok := requestStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("request_status(%d)", int(s))
}

// ParseRequestStatus converts a raw integer to RequestStatus.
func ParseRequestStatus(value int) (RequestStatus, error) {
	status := RequestStatus(value)
	if !status.IsValid() {
		return 0, fmt.Errorf("invalid request status %d", value)
	}
	return status, nil
}
