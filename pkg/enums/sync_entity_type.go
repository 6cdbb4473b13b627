package enums

import "fmt"

// SyncEntityType names the local record kinds that can be pushed to
// QuickBooks.
type SyncEntityType string

const (
	SyncEntityExpense     SyncEntityType = "expense"
	SyncEntityTimeEntry   SyncEntityType = "time_entry"
	SyncEntityChangeOrder SyncEntityType = "change_order"
	SyncEntityEstimate    SyncEntityType = "estimate"
)

var validSyncEntityTypes = []SyncEntityType{
	SyncEntityExpense,
	SyncEntityTimeEntry,
	SyncEntityChangeOrder,
	SyncEntityEstimate,
}

// String implements fmt.Stringer.
func (t SyncEntityType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known SyncEntityType.
func (t SyncEntityType) IsValid() bool {
	for _, candidate := range validSyncEntityTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseSyncEntityType converts raw input into a SyncEntityType.
func ParseSyncEntityType(value string) (SyncEntityType, error) {
	for _, candidate := range validSyncEntityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sync entity type %q", value)
}
