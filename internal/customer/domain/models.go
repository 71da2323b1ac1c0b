package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CustomerType string

const (
	CustomerTypeMilkman CustomerType = "milkman"
	CustomerTypeRegular CustomerType = "regular"
)

func ParseCustomerType(value string) (CustomerType, bool) {
	switch CustomerType(strings.ToLower(strings.TrimSpace(value))) {
	case CustomerTypeMilkman:
		return CustomerTypeMilkman, true
	case CustomerTypeRegular:
		return CustomerTypeRegular, true
	default:
		return "", false
	}
}

// Customer is a delivery recipient. Milkman customers always carry a zero
// DailyAmount; NameKey backs the case-insensitive unique name index.
type Customer struct {
	ID           snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name         string       `gorm:"not null" json:"name"`
	NameKey      string       `gorm:"column:name_key;not null;uniqueIndex:ux_customers_name_key" json:"-"`
	CustomerType CustomerType `gorm:"column:customer_type;type:varchar(16);not null" json:"customerType"`
	DailyAmount  float64      `gorm:"column:daily_amount;not null" json:"dailyAmount"`
	IsActive     bool         `gorm:"column:is_active;not null;index" json:"isActive"`
	CreatedAt    time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updatedAt"`
}

func (Customer) TableName() string { return "customers" }

// NameKey normalizes a display name for uniqueness comparison.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
