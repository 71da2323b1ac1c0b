package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/smallbiznis/milkledger/internal/report/domain"
)

type reportQuery struct {
	From       string `form:"from"`
	To         string `form:"to"`
	CustomerID string `form:"customerId"`
	Rate       string `form:"rate"`
}

func (s *Server) GetReport(c *gin.Context) {
	req, ok := s.bindReportRequest(c)
	if !ok {
		return
	}

	resp, err := s.reportSvc.Generate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, failed("Failed to generate report", err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ExportReport(c *gin.Context) {
	req, ok := s.bindReportRequest(c)
	if !ok {
		return
	}

	format, ok := reportdomain.ParseFormat(c.Query("format"))
	if !ok {
		AbortWithError(c, reportdomain.ErrInvalidFormat)
		return
	}

	doc, err := s.reportSvc.Export(c.Request.Context(), req, format)
	if err != nil {
		AbortWithError(c, failed("Failed to export report", err))
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}

func (s *Server) bindReportRequest(c *gin.Context) (reportdomain.ReportRequest, bool) {
	var query reportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidQuery)
		return reportdomain.ReportRequest{}, false
	}

	loc := s.clock.Location()
	from, err := parseOptionalDate(query.From, loc)
	if err != nil {
		AbortWithError(c, ErrInvalidQuery)
		return reportdomain.ReportRequest{}, false
	}
	to, err := parseOptionalDate(query.To, loc)
	if err != nil {
		AbortWithError(c, ErrInvalidQuery)
		return reportdomain.ReportRequest{}, false
	}
	rate, err := parseOptionalFloat(query.Rate)
	if err != nil {
		AbortWithError(c, ErrInvalidQuery)
		return reportdomain.ReportRequest{}, false
	}

	return reportdomain.ReportRequest{
		From:       from,
		To:         to,
		CustomerID: strings.TrimSpace(query.CustomerID),
		Rate:       rate,
	}, true
}
