package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"gambling-ledger/internal/models"
	"gambling-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LogHandler serves the persisted operation audit trail.
type LogHandler struct {
	DB *gorm.DB
}

func NewLogHandler(db *gorm.DB) *LogHandler {
	return &LogHandler{DB: db}
}

type logResp struct {
	ID        uint      `json:"id"`
	Action    string    `json:"action"`
	Path      string    `json:"path"`
	Method    string    `json:"method"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// ListLogs lists the user's audit rows with paging, a date range and an
// optional keyword over path/action.
func (h *LogHandler) ListLogs(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	var (
		startTime time.Time
		endTime   time.Time
		hasStart  bool
		hasEnd    bool
		err       error
	)

	if startStr := c.Query("start"); startStr != "" {
		startTime, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start date must be YYYY-MM-DD")
			return
		}
		hasStart = true
	}
	if endStr := c.Query("end"); endStr != "" {
		endTime, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end date must be YYYY-MM-DD")
			return
		}
		// end date is inclusive: < end+1 day
		endTime = endTime.Add(24 * time.Hour)
		hasEnd = true
	}

	q := strings.TrimSpace(c.Query("q"))

	base := h.DB.Model(&models.AuditLog{}).Where("user_code = ?", user)
	if hasStart {
		base = base.Where("created_at >= ?", startTime)
	}
	if hasEnd {
		base = base.Where("created_at < ?", endTime)
	}
	if q != "" {
		like := "%" + q + "%"
		base = base.Where("path LIKE ? OR action LIKE ?", like, like)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query logs failed")
		return
	}

	var logs []models.AuditLog
	if err := base.
		Order("created_at DESC, id DESC").
		Limit(size).
		Offset(offset).
		Find(&logs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query logs failed")
		return
	}

	items := make([]logResp, 0, len(logs))
	for i := range logs {
		l := &logs[i]
		items = append(items, logResp{
			ID:        l.ID,
			Action:    l.Action,
			Path:      l.Path,
			Method:    l.Method,
			IP:        l.IP,
			UserAgent: l.UserAgent,
			CreatedAt: l.CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}
