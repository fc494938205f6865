package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ledger-service/internal/services"
	"ledger-service/pkg/common"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var queryDateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type TransactionHandler struct {
	Service *services.TransactionService
}

func NewTransactionHandler(service *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{Service: service}
}

func (h *TransactionHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("file is required", nil, http.StatusBadRequest))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("failed to open uploaded file", nil, http.StatusBadRequest))
		return
	}
	defer file.Close()

	report, err := h.Service.ImportTransactions(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(report, "Import completed"))
}

func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	fromDate, toDate, ok := h.dateRange(c)
	if !ok {
		return
	}
	userTimezone := strings.TrimSpace(c.Query("userTimeZone"))
	if userTimezone == "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("userTimeZone is required", nil, http.StatusBadRequest))
		return
	}

	transactions, err := h.Service.GetTransactions(fromDate, toDate, userTimezone)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) GetClientTransactions(c *gin.Context) {
	fromDate, toDate, ok := h.dateRange(c)
	if !ok {
		return
	}

	transactions, err := h.Service.GetClientTransactions(fromDate, toDate)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) GetJanuary2024Transactions(c *gin.Context) {
	transactions, err := h.Service.GetJanuary2024Transactions()
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) Export(c *gin.Context) {
	fromDate, toDate, ok := h.dateRange(c)
	if !ok {
		return
	}
	userTimezone := strings.TrimSpace(c.Query("userTimeZone"))
	if userTimezone == "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("userTimeZone is required", nil, http.StatusBadRequest))
		return
	}

	content, err := h.Service.ExportTransactions(fromDate, toDate, userTimezone)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename=Transactions.xlsx`)
	c.Data(http.StatusOK, xlsxContentType, content)
}

func (h *TransactionHandler) dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	fromDate, err := parseQueryDate(c.Query("fromDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid fromDate", nil, http.StatusBadRequest))
		return time.Time{}, time.Time{}, false
	}
	toDate, err := parseQueryDate(c.Query("toDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid toDate", nil, http.StatusBadRequest))
		return time.Time{}, time.Time{}, false
	}
	return fromDate, toDate, true
}

func (h *TransactionHandler) serviceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, services.ErrInvalidRange) || errors.Is(err, services.ErrUnknownTimezone) {
		status = http.StatusBadRequest
	}
	c.JSON(status, common.NewErrorResponse(err.Error(), nil, status))
}

func parseQueryDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var err error
	for _, layout := range queryDateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
