package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// QuoteLineItem is one priced row within a vendor quote.
// EstimateLineItemID is a non-owning reference used only for comparison.
type QuoteLineItem struct {
	ID                 uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID            uuid.UUID              `gorm:"column:quote_id;type:uuid;not null"`
	EstimateLineItemID *uuid.UUID             `gorm:"column:estimate_line_item_id;type:uuid"`
	Category           enums.LineItemCategory `gorm:"column:category;type:text;not null"`
	Description        string                 `gorm:"column:description;not null"`
	Quantity           decimal.Decimal        `gorm:"column:quantity;type:numeric(12,3);not null;default:0"`
	CostPerUnit        decimal.Decimal        `gorm:"column:cost_per_unit;type:numeric(12,2);not null;default:0"`
	PricePerUnit       decimal.Decimal        `gorm:"column:price_per_unit;type:numeric(12,2);not null;default:0"`
	MarkupPercent      *decimal.Decimal       `gorm:"column:markup_percent;type:numeric(7,3)"`
	MarkupAmount       *decimal.Decimal       `gorm:"column:markup_amount;type:numeric(12,2)"`
	Total              decimal.Decimal        `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	TotalCost          decimal.Decimal        `gorm:"column:total_cost;type:numeric(12,2);not null;default:0"`
	TotalMarkup        decimal.Decimal        `gorm:"column:total_markup;type:numeric(12,2);not null;default:0"`
	SortOrder          int                    `gorm:"column:sort_order;not null;default:0"`
	CreatedAt          time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
