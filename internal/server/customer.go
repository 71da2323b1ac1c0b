package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/milkledger/internal/customer/domain"
)

type createCustomerRequest struct {
	Name         string   `json:"name"`
	CustomerType string   `json:"customerType"`
	DailyAmount  *float64 `json:"dailyAmount"`
}

type updateCustomerRequest struct {
	Name         *string  `json:"name"`
	CustomerType *string  `json:"customerType"`
	DailyAmount  *float64 `json:"dailyAmount"`
	IsActive     *bool    `json:"isActive"`
}

func (s *Server) ListCustomers(c *gin.Context) {
	resp, err := s.customerSvc.ListActive(c.Request.Context())
	if err != nil {
		AbortWithError(c, failed("Failed to fetch customers", err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListAllCustomers(c *gin.Context) {
	resp, err := s.customerSvc.ListAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, failed("Failed to fetch customers", err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	resp, err := s.customerSvc.GetByID(c.Request.Context(), customerdomain.GetCustomerRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, failed("Failed to fetch customer", err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		Name:         req.Name,
		CustomerType: req.CustomerType,
		DailyAmount:  req.DailyAmount,
	})
	if err != nil {
		AbortWithError(c, failed("Failed to create customer", err))
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), customerdomain.UpdateCustomerRequest{
		ID:           strings.TrimSpace(c.Param("id")),
		Name:         req.Name,
		CustomerType: req.CustomerType,
		DailyAmount:  req.DailyAmount,
		IsActive:     req.IsActive,
	})
	if err != nil {
		AbortWithError(c, failed("Failed to update customer", err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	if err := s.customerSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, failed("Failed to delete customer", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

func isCustomerValidationError(err error) bool {
	switch {
	case errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidCustomerType),
		errors.Is(err, customerdomain.ErrDailyAmountRequired),
		errors.Is(err, customerdomain.ErrInvalidDailyAmount),
		errors.Is(err, customerdomain.ErrDuplicateName):
		return true
	default:
		return false
	}
}
