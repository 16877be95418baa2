package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pharmacademy/internal/models"
	"pharmacademy/internal/services"
)

type LoginLogHandler struct {
	logs services.LoginLogService
}

func NewLoginLogHandler(logs services.LoginLogService) *LoginLogHandler {
	return &LoginLogHandler{logs: logs}
}

// @Summary      List admin login logs
// @Tags         AdminLogs
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "Page"
// @Param        limit   query  int     false  "Page size"
// @Param        status  query  string  false  "success or failed"
// @Success      200  {object}  models.LoginLogPage
// @Router       /admin/login-logs [get]
func (h *LoginLogHandler) List(c *gin.Context) {
	page, err := h.logs.List(filterFromQuery(c))
	if err != nil {
		log.Printf("[login-logs][list] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load login logs"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary      Export admin login logs as PDF
// @Tags         AdminLogs
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        page    query  int     false  "Page"
// @Param        limit   query  int     false  "Page size"
// @Param        status  query  string  false  "success or failed"
// @Success      200  {file}  binary
// @Router       /admin/login-logs/export [get]
func (h *LoginLogHandler) Export(c *gin.Context) {
	data, err := h.logs.ExportPDF(filterFromQuery(c))
	if err != nil {
		log.Printf("[login-logs][export] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to export login logs"})
		return
	}
	filename := "login-logs-" + time.Now().Format("20060102-150405") + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func filterFromQuery(c *gin.Context) models.LoginLogFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return models.LoginLogFilter{
		AdminID: c.Query("admin_id"),
		Status:  c.Query("status"),
		Page:    page,
		Limit:   limit,
	}
}
