package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/milkledger/internal/customer/domain"
)

// DeliveryRecord is one dated delivery for a customer. DeliveryDate holds the
// civil day at midnight UTC. CustomerID is a plain reference with no cascade.
type DeliveryRecord struct {
	ID            snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CustomerID    snowflake.ID `gorm:"column:customer_id;not null;index" json:"customerId"`
	DeliveryDate  time.Time    `gorm:"column:delivery_date;not null;index" json:"date"`
	MorningAmount *float64     `gorm:"column:morning_amount" json:"morningAmount,omitempty"`
	EveningAmount *float64     `gorm:"column:evening_amount" json:"eveningAmount,omitempty"`
	CreatedAt     time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updatedAt"`
}

func (DeliveryRecord) TableName() string { return "milk_records" }

// CustomerRef is the customer projection embedded in a joined record.
type CustomerRef struct {
	ID           snowflake.ID                `json:"id"`
	Name         string                      `json:"name"`
	CustomerType customerdomain.CustomerType `json:"customerType"`
	DailyAmount  float64                     `json:"dailyAmount"`
	IsActive     bool                        `json:"isActive"`
}

// Record is a delivery record joined with its customer. Customer is nil only
// when the referenced customer no longer exists.
type Record struct {
	ID            snowflake.ID `json:"id"`
	CustomerID    snowflake.ID `json:"customerId"`
	Customer      *CustomerRef `json:"customer"`
	CustomerName  string       `json:"customerName"`
	Date          time.Time    `json:"date"`
	MorningAmount *float64     `json:"morningAmount,omitempty"`
	EveningAmount *float64     `json:"eveningAmount,omitempty"`
	Quantity      float64      `json:"quantity"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// RecordRow is the flat scan target of the records/customers join.
type RecordRow struct {
	ID            snowflake.ID
	CustomerID    snowflake.ID
	DeliveryDate  time.Time
	MorningAmount *float64
	EveningAmount *float64
	CreatedAt     time.Time
	UpdatedAt     time.Time

	CustomerName     string
	CustomerType     customerdomain.CustomerType
	DailyAmount      float64
	CustomerIsActive bool
}

// NewRecord joins a stored record with its customer, which may be nil.
func NewRecord(rec DeliveryRecord, customer *CustomerRef) Record {
	out := Record{
		ID:            rec.ID,
		CustomerID:    rec.CustomerID,
		Customer:      customer,
		Date:          rec.DeliveryDate.UTC(),
		MorningAmount: rec.MorningAmount,
		EveningAmount: rec.EveningAmount,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
	if customer != nil {
		out.CustomerName = customer.Name
		out.Quantity = Quantity(customer.CustomerType, customer.DailyAmount, rec.MorningAmount, rec.EveningAmount)
	}
	return out
}

func (r RecordRow) Record() Record {
	return NewRecord(DeliveryRecord{
		ID:            r.ID,
		CustomerID:    r.CustomerID,
		DeliveryDate:  r.DeliveryDate,
		MorningAmount: r.MorningAmount,
		EveningAmount: r.EveningAmount,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, &CustomerRef{
		ID:           r.CustomerID,
		Name:         r.CustomerName,
		CustomerType: r.CustomerType,
		DailyAmount:  r.DailyAmount,
		IsActive:     r.CustomerIsActive,
	})
}

// RefFromCustomer projects a customer onto the joined view.
func RefFromCustomer(c customerdomain.Customer) *CustomerRef {
	return &CustomerRef{
		ID:           c.ID,
		Name:         c.Name,
		CustomerType: c.CustomerType,
		DailyAmount:  c.DailyAmount,
		IsActive:     c.IsActive,
	}
}
