package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// EstimateLineItem is one priced row within an estimate. Derived columns
// (price_per_unit, total, total_cost, total_markup, labor_cushion_amount)
// are recomputed by the service on every write; exactly one of
// markup_percent / markup_amount is set at a time.
type EstimateLineItem struct {
	ID                    uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EstimateID            uuid.UUID              `gorm:"column:estimate_id;type:uuid;not null"`
	Category              enums.LineItemCategory `gorm:"column:category;type:text;not null"`
	Description           string                 `gorm:"column:description;not null"`
	Quantity              decimal.Decimal        `gorm:"column:quantity;type:numeric(12,3);not null;default:0"`
	CostPerUnit           decimal.Decimal        `gorm:"column:cost_per_unit;type:numeric(12,2);not null;default:0"`
	PricePerUnit          decimal.Decimal        `gorm:"column:price_per_unit;type:numeric(12,2);not null;default:0"`
	MarkupPercent         *decimal.Decimal       `gorm:"column:markup_percent;type:numeric(7,3)"`
	MarkupAmount          *decimal.Decimal       `gorm:"column:markup_amount;type:numeric(12,2)"`
	Total                 decimal.Decimal        `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	TotalCost             decimal.Decimal        `gorm:"column:total_cost;type:numeric(12,2);not null;default:0"`
	TotalMarkup           decimal.Decimal        `gorm:"column:total_markup;type:numeric(12,2);not null;default:0"`
	LaborHours            *decimal.Decimal       `gorm:"column:labor_hours;type:numeric(10,2)"`
	BillingRatePerHour    *decimal.Decimal       `gorm:"column:billing_rate_per_hour;type:numeric(12,2)"`
	ActualCostRatePerHour *decimal.Decimal       `gorm:"column:actual_cost_rate_per_hour;type:numeric(12,2)"`
	LaborCushionAmount    decimal.Decimal        `gorm:"column:labor_cushion_amount;type:numeric(12,2);not null;default:0"`
	SortOrder             int                    `gorm:"column:sort_order;not null;default:0"`
	CreatedAt             time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
