package enums

import "fmt"

// LineItemCategory classifies estimate and quote line items. The string
// values double as storage keys and CSV export tokens, so they must not
// change once data exists.
type LineItemCategory string

const (
	CategoryLaborInternal  LineItemCategory = "labor_internal"
	CategorySubcontractors LineItemCategory = "subcontractors"
	CategoryMaterials      LineItemCategory = "materials"
	CategoryEquipment      LineItemCategory = "equipment"
	CategoryPermits        LineItemCategory = "permits"
	CategoryManagement     LineItemCategory = "management"
	CategoryOther          LineItemCategory = "other"
)

var validLineItemCategories = []LineItemCategory{
	CategoryLaborInternal,
	CategorySubcontractors,
	CategoryMaterials,
	CategoryEquipment,
	CategoryPermits,
	CategoryManagement,
	CategoryOther,
}

// LineItemCategories returns the categories in their canonical display order.
func LineItemCategories() []LineItemCategory {
	out := make([]LineItemCategory, len(validLineItemCategories))
	copy(out, validLineItemCategories)
	return out
}

// String implements fmt.Stringer.
func (c LineItemCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known LineItemCategory.
func (c LineItemCategory) IsValid() bool {
	for _, candidate := range validLineItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseLineItemCategory converts raw input into a LineItemCategory.
func ParseLineItemCategory(value string) (LineItemCategory, error) {
	for _, candidate := range validLineItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid line item category %q", value)
}
