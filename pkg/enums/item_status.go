package enums

import "fmt"

// ItemStatus is the lifecycle state of an inventory item. Values are stable,
// they are persisted as integers and exposed in API payloads.
type ItemStatus int

const (
	ItemStatusAvailable     ItemStatus = 1
	ItemStatusPendingBorrow ItemStatus = 2
	ItemStatusBorrowed      ItemStatus = 3
	ItemStatusPendingReturn ItemStatus = 4
	ItemStatusRepairing     ItemStatus = 5
	ItemStatusBroken        ItemStatus = 6
)

var itemStatusNames = map[ItemStatus]string{
	ItemStatusAvailable:     "available",
	ItemStatusPendingBorrow: "pending_borrow",
	ItemStatusBorrowed:      "borrowed",
	ItemStatusPendingReturn: "pending_return",
	ItemStatusRepairing:     "repairing",
	ItemStatusBroken:        "broken",
}

// IsValid reports whether the value is one of the canonical item statuses.
func (s ItemStatus) IsValid() bool {
	_, ok := itemStatusNames[s]
	return ok
}

func (s ItemStatus) String() string {
	if name, ok := itemStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("item_status(%d)", int(s))
}

// ParseItemStatus converts a raw integer to ItemStatus.
func ParseItemStatus(value int) (ItemStatus, error) {
	status := ItemStatus(value)
	if !status.IsValid() {
		return 0, fmt.Errorf("invalid item status %d", value)
	}
	return status, nil
}
