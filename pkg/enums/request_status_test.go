package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatusOpenAndTerminalSets(t *testing.T) {
	open := map[RequestStatus]bool{
		RequestStatusPendingApproval:  true,
		RequestStatusApproved:         true,
		RequestStatusAwaitingHandover: true,
		RequestStatusAwaitingReturn:   true,
	}
	terminal := map[RequestStatus]bool{
		RequestStatusRejected:  true,
		RequestStatusClosed:    true,
		RequestStatusCancelled: true,
	}

	for status := range requestStatusNames {
		assert.Equal(t, open[status], status.IsOpen(), "IsOpen(%s)", status)
		assert.Equal(t, terminal[status], status.IsTerminal(), "IsTerminal(%s)", status)
	}

	// Completed sits between ConfirmReceive and CheckItem: not counted as an
	// active request, not yet immutable history.
	assert.False(t, RequestStatusCompleted.IsOpen())
	assert.False(t, RequestStatusCompleted.IsTerminal())
}
