package domain

import (
	"strings"
	"time"

	deliverydomain "github.com/smallbiznis/milkledger/internal/delivery/domain"
)

// Period is an inclusive range of calendar days, each held as midnight UTC.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type DailyTotal struct {
	Date       time.Time `json:"date"`
	Quantity   float64   `json:"quantity"`
	Deliveries int       `json:"deliveries"`
	Records    int       `json:"records"`
}

type Report struct {
	Title         string                  `json:"title"`
	Period        Period                  `json:"period"`
	CustomerID    string                  `json:"customerId,omitempty"`
	Rate          float64                 `json:"rate"`
	TotalQuantity float64                 `json:"totalQuantity"`
	TotalAmount   float64                 `json:"totalAmount"`
	Deliveries    int                     `json:"deliveries"`
	AverageDaily  float64                 `json:"averageDaily"`
	Daily         []DailyTotal            `json:"daily"`
	Records       []deliverydomain.Record `json:"records"`
}

type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts the downloadable formats only.
func ParseFormat(value string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatXLSX:
		return FormatXLSX, true
	case FormatPDF:
		return FormatPDF, true
	default:
		return "", false
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

// Document is a rendered report ready to be served as a download.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}
