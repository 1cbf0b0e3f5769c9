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

// BankHandler exposes the bank ledger and the balance aggregator over JSON.
type BankHandler struct {
	Ledger *ledger.BankLedger
	Agg    *ledger.Aggregator
}

func NewBankHandler(l *ledger.BankLedger, agg *ledger.Aggregator) *BankHandler {
	return &BankHandler{Ledger: l, Agg: agg}
}

type bankResp struct {
	ID          int             `json:"id"`
	Date        string          `json:"date"`
	DisplayDate string          `json:"display_date"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Site        string          `json:"site"`
	User        string          `json:"user"`
}

func toBankResp(tx models.BankTransaction) bankResp {
	return bankResp{
		ID:          tx.ID,
		Date:        tx.Date,
		DisplayDate: util.FormatDateForDisplay(tx.Date),
		Type:        tx.Type,
		Amount:      tx.Amount,
		Site:        tx.Site,
		User:        tx.User,
	}
}

// ListTransactions returns the user's transactions plus the bank page
// extras: known sites, the current balance and today's date.
func (h *BankHandler) ListTransactions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	txs := h.Ledger.List(user)
	items := make([]bankResp, 0, len(txs))
	for _, tx := range txs {
		items = append(items, toBankResp(tx))
	}

	util.Success(c, util.Response{
		"items":   items,
		"sites":   h.Agg.Sites(user),
		"balance": h.Agg.Summarize(user),
		"today":   util.Today(),
	})
}

// CreateTransaction records a new deposit or withdrawal.
func (h *BankHandler) CreateTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var form ledger.BankForm
	if err := c.ShouldBind(&form); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, bindMsg(err))
		return
	}

	tx, err := h.Ledger.Create(user, form)
	if err != nil {
		ledgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"transaction": toBankResp(tx),
		"balance":     h.Agg.Summarize(user),
	})
}

type replaceTransactionsReq struct {
	Transactions []models.BankTransaction `json:"transactions" binding:"required"`
}

// ReplaceTransactions swaps out all of the user's rows for the provided set.
func (h *BankHandler) ReplaceTransactions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req replaceTransactionsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, bindMsg(err))
		return
	}

	if err := h.Ledger.ReplaceAll(user, req.Transactions); err != nil {
		ledgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"balance": h.Agg.Summarize(user),
	})
}

// DeleteTransaction removes the user's transaction by id.
func (h *BankHandler) DeleteTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid transaction id")
		return
	}

	if err := h.Ledger.Delete(id, user); err != nil {
		ledgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"balance": h.Agg.Summarize(user),
	})
}

// GetBalance returns the user's overall balance summary.
func (h *BankHandler) GetBalance(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	util.Success(c, util.Response{
		"balance": h.Agg.Summarize(user),
	})
}

// GetBalanceBySite returns the user's balances grouped by website/site.
func (h *BankHandler) GetBalanceBySite(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	util.Success(c, util.Response{
		"balance": h.Agg.SummarizeBySite(user),
	})
}
