package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	deliverydomain "github.com/smallbiznis/milkledger/internal/delivery/domain"
)

type createRecordRequest struct {
	CustomerID    string   `json:"customerId" binding:"required"`
	Date          string   `json:"date" binding:"required"`
	MorningAmount *float64 `json:"morningAmount" binding:"omitempty,gte=0"`
	EveningAmount *float64 `json:"eveningAmount" binding:"omitempty,gte=0"`
}

// customerId and date are accepted for compatibility and ignored.
type updateRecordRequest struct {
	MorningAmount *float64 `json:"morningAmount" binding:"omitempty,gte=0"`
	EveningAmount *float64 `json:"eveningAmount" binding:"omitempty,gte=0"`
}

func (s *Server) ListRecords(c *gin.Context) {
	var query struct {
		Date       string `form:"date"`
		From       string `form:"from"`
		To         string `form:"to"`
		CustomerID string `form:"customerId"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidQuery)
		return
	}

	loc := s.clock.Location()
	date, err := parseOptionalDate(query.Date, loc)
	if err != nil {
		AbortWithError(c, ErrInvalidQuery)
		return
	}
	from, err := parseOptionalDate(query.From, loc)
	if err != nil {
		AbortWithError(c, ErrInvalidQuery)
		return
	}
	to, err := parseOptionalDate(query.To, loc)
	if err != nil {
		AbortWithError(c, ErrInvalidQuery)
		return
	}

	resp, err := s.deliverySvc.List(c.Request.Context(), deliverydomain.ListRecordRequest{
		Date:       date,
		From:       from,
		To:         to,
		CustomerID: strings.TrimSpace(query.CustomerID),
	})
	if err != nil {
		AbortWithError(c, failed("Failed to fetch records", err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateRecord(c *gin.Context) {
	var req createRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindingError(err))
		return
	}

	date, err := parseOptionalDate(req.Date, s.clock.Location())
	if err != nil {
		AbortWithError(c, deliverydomain.ErrMalformedDate)
		return
	}
	if date == nil {
		AbortWithError(c, deliverydomain.ErrInvalidDate)
		return
	}

	resp, err := s.deliverySvc.Create(c.Request.Context(), deliverydomain.CreateRecordRequest{
		CustomerID:    strings.TrimSpace(req.CustomerID),
		Date:          *date,
		MorningAmount: req.MorningAmount,
		EveningAmount: req.EveningAmount,
	})
	if err != nil {
		AbortWithError(c, failed("Failed to create record", err))
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateRecord(c *gin.Context) {
	var req updateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindingError(err))
		return
	}

	resp, err := s.deliverySvc.Update(c.Request.Context(), deliverydomain.UpdateRecordRequest{
		ID:            strings.TrimSpace(c.Param("id")),
		MorningAmount: req.MorningAmount,
		EveningAmount: req.EveningAmount,
	})
	if err != nil {
		AbortWithError(c, failed("Failed to update record", err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteRecord(c *gin.Context) {
	if err := s.deliverySvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, failed("Failed to delete record", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
}

// bindingError keeps validator field errors and reports anything else as a
// malformed body.
func bindingError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return err
	}
	return ErrInvalidRequest
}

func isRecordValidationError(err error) bool {
	switch {
	case errors.Is(err, deliverydomain.ErrInvalidDate),
		errors.Is(err, deliverydomain.ErrMalformedDate),
		errors.Is(err, deliverydomain.ErrInvalidAmount),
		errors.Is(err, deliverydomain.ErrCustomerNotFoundOrInactive):
		return true
	default:
		return false
	}
}
