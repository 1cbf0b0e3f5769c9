package handler

import (
	"net/http"
	"strconv"

	"gambling-ledger/internal/ledger"
	"gambling-ledger/internal/models"
	"gambling-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GamblingHandler exposes the gambling ledger over JSON.
type GamblingHandler struct {
	Ledger   *ledger.GamblingLedger
	Websites *ledger.ReferenceList
	Machines *ledger.ReferenceList
}

func NewGamblingHandler(l *ledger.GamblingLedger, websites, machines *ledger.ReferenceList) *GamblingHandler {
	return &GamblingHandler{Ledger: l, Websites: websites, Machines: machines}
}

type gambleResp struct {
	ID          int              `json:"id"`
	Date        string           `json:"date"`
	DisplayDate string           `json:"display_date"`
	Website     string           `json:"website"`
	Machine     string           `json:"machine"`
	Win         decimal.Decimal  `json:"win"`
	FreeWin     decimal.Decimal  `json:"free_win"`
	FreeWinM    string           `json:"free_win_m"`
	Note        string           `json:"note"`
	StartAmount *decimal.Decimal `json:"start_amount"`
	EndAmount   *decimal.Decimal `json:"end_amount"`
	Profit      decimal.Decimal  `json:"profit"`
	User        string           `json:"user"`
}

func toGambleResp(e models.GamblingEntry) gambleResp {
	return gambleResp{
		ID:          e.ID,
		Date:        e.Date,
		DisplayDate: util.FormatDateForDisplay(e.Date),
		Website:     e.Website,
		Machine:     e.Machine,
		Win:         e.Win,
		FreeWin:     e.FreeWin,
		FreeWinM:    e.FreeWinM,
		Note:        e.Note,
		StartAmount: e.StartAmount,
		EndAmount:   e.EndAmount,
		Profit:      e.Profit,
		User:        e.User,
	}
}

// ListGambles returns the user's entries plus everything the gambling page
// needs: the reference lists and today's date for form defaulting.
func (h *GamblingHandler) ListGambles(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	entries := h.Ledger.List(user)
	items := make([]gambleResp, 0, len(entries))
	for _, e := range entries {
		items = append(items, toGambleResp(e))
	}

	util.Success(c, util.Response{
		"items":    items,
		"websites": h.Websites.Values(),
		"machines": h.Machines.Values(),
		"today":    util.Today(),
	})
}

// GetGamble returns a single entry; only the owner may see it.
func (h *GamblingHandler) GetGamble(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid gamble id")
		return
	}

	entry, err := h.Ledger.Get(id)
	if err != nil {
		ledgerError(c, err)
		return
	}
	if entry.User != user {
		util.Error(c, http.StatusForbidden, util.CodePermission, "no permission to view this gamble")
		return
	}

	util.Success(c, util.Response{
		"gamble": toGambleResp(entry),
	})
}

// UpsertGamble creates a new entry, or edits one in place when the
// submission carries an existing id.
func (h *GamblingHandler) UpsertGamble(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var form ledger.GambleForm
	if err := c.ShouldBind(&form); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, bindMsg(err))
		return
	}

	entry, err := h.Ledger.Upsert(user, form)
	if err != nil {
		ledgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"gamble": toGambleResp(entry),
	})
}

// UpdateGamble applies a partial update to one entry.
func (h *GamblingHandler) UpdateGamble(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid gamble id")
		return
	}

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request payload")
		return
	}

	entry, err := h.Ledger.Patch(id, user, fields)
	if err != nil {
		ledgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"gamble": toGambleResp(entry),
	})
}

type updateAllGamblesReq struct {
	Gambles []map[string]any `json:"gambles" binding:"required"`
}

// UpdateAllGambles applies partial updates in bulk. Items with a missing id
// or owned by someone else are skipped silently, not failed.
func (h *GamblingHandler) UpdateAllGambles(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateAllGamblesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, bindMsg(err))
		return
	}

	if err := h.Ledger.PatchMany(user, req.Gambles); err != nil {
		ledgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "all gambles updated",
	})
}

// DeleteGamble removes one entry; only the owner may delete it.
func (h *GamblingHandler) DeleteGamble(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid gamble id")
		return
	}

	if err := h.Ledger.Delete(id, user); err != nil {
		ledgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "gamble deleted",
	})
}

// ListWebsites returns the websites reference list.
func (h *GamblingHandler) ListWebsites(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	util.Success(c, util.Response{
		"items": h.Websites.Values(),
	})
}

// ListMachines returns the machines reference list.
func (h *GamblingHandler) ListMachines(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	util.Success(c, util.Response{
		"items": h.Machines.Values(),
	})
}
