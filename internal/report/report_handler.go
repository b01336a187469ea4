package report

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"crewtrack/internal/shared/apperror"
	"crewtrack/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func writeFile(c *gin.Context, f ReportFile) {
	encoded := url.QueryEscape(f.FileName)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encoded)
	c.Data(http.StatusOK, f.ContentType, f.Data)
}

func (h *Handler) TimesheetCSV(c *gin.Context) {
	month := c.DefaultQuery("month", time.Now().UTC().Format("2006-01"))

	f, err := h.service.TimesheetCSV(c.Request.Context(), month)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeFile(c, f)
}

func (h *Handler) LeaveOverviewXLSX(c *gin.Context) {
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().UTC().Year())))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "year must be a number", nil)
		return
	}

	f, err := h.service.LeaveOverviewXLSX(c.Request.Context(), year)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeFile(c, f)
}

func (h *Handler) MonthlyEmployeePDF(c *gin.Context) {
	month := c.DefaultQuery("month", time.Now().UTC().Format("2006-01"))

	f, err := h.service.MonthlyEmployeePDF(c.Request.Context(), c.Param("employeeId"), month)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeFile(c, f)
}
