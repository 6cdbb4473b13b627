package enums

import "fmt"

// ChangeOrderStatus tracks approval state of a change order. Rejected change
// orders may be approved later; only approved rows count toward rollups.
type ChangeOrderStatus string

const (
	ChangeOrderStatusPending  ChangeOrderStatus = "pending"
	ChangeOrderStatusApproved ChangeOrderStatus = "approved"
	ChangeOrderStatusRejected ChangeOrderStatus = "rejected"
)

var validChangeOrderStatuses = []ChangeOrderStatus{
	ChangeOrderStatusPending,
	ChangeOrderStatusApproved,
	ChangeOrderStatusRejected,
}

// String implements fmt.Stringer.
func (s ChangeOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ChangeOrderStatus.
func (s ChangeOrderStatus) IsValid() bool {
	for _, candidate := range validChangeOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseChangeOrderStatus converts raw input into a ChangeOrderStatus.
func ParseChangeOrderStatus(value string) (ChangeOrderStatus, error) {
	for _, candidate := range validChangeOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid change order status %q", value)
}
