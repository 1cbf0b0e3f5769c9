package handler

import (
	"net/http"
	"net/url"
	"testing"

	"gambling-ledger/internal/ledger"
	"gambling-ledger/internal/store"

	"github.com/gin-gonic/gin"
)

type bankRoutes struct {
	user1 *gin.Engine
	user2 *gin.Engine
}

func newBankRoutes(t *testing.T) bankRoutes {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	gambling := ledger.NewGamblingLedger(st, ledger.NewWebsiteList(st), ledger.NewMachineList(st))
	bank := ledger.NewBankLedger(st)
	h := NewBankHandler(bank, ledger.NewAggregator(gambling, bank))

	build := func(user string) *gin.Engine {
		r := gin.New()
		r.Use(asUser(user))
		r.GET("/bank", h.ListTransactions)
		r.POST("/bank", h.CreateTransaction)
		r.PUT("/bank", h.ReplaceTransactions)
		r.DELETE("/bank/:id", h.DeleteTransaction)
		r.GET("/balance", h.GetBalance)
		r.GET("/balance/by-site", h.GetBalanceBySite)
		return r
	}
	return bankRoutes{user1: build("user1"), user2: build("user2")}
}

func TestCreateTransactionReturnsUpdatedBalance(t *testing.T) {
	routes := newBankRoutes(t)

	w := doForm(t, routes.user1, http.MethodPost, "/bank", url.Values{
		"date":   {"2026-08-30"},
		"type":   {"deposit"},
		"amount": {"200"},
		"site":   {"CasinoX"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	tx := dataField(t, w, "transaction").(map[string]any)
	if tx["id"].(float64) != 1 {
		t.Fatalf("expected id 1, got %v", tx["id"])
	}

	w = doForm(t, routes.user1, http.MethodPost, "/bank", url.Values{
		"type": {"withdrawal"}, "amount": {"50"},
	})
	balance := dataField(t, w, "balance").(map[string]any)
	if balance["bank_balance"].(string) != "150" {
		t.Fatalf("expected bank balance 150, got %v", balance["bank_balance"])
	}
}

func TestCreateTransactionRequiresType(t *testing.T) {
	routes := newBankRoutes(t)

	w := doForm(t, routes.user1, http.MethodPost, "/bank", url.Values{"amount": {"200"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing type, got %d: %s", w.Code, w.Body.String())
	}
}

func TestReplaceTransactionsScopedToUser(t *testing.T) {
	routes := newBankRoutes(t)

	doForm(t, routes.user1, http.MethodPost, "/bank", url.Values{"type": {"deposit"}, "amount": {"100"}})
	doForm(t, routes.user2, http.MethodPost, "/bank", url.Values{"type": {"deposit"}, "amount": {"7"}})

	w := doJSON(t, routes.user1, http.MethodPut, "/bank", map[string]any{
		"transactions": []map[string]any{
			{"id": 10, "date": "2026-08-30", "type": "withdrawal", "amount": "25", "site": "CasinoZ"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, routes.user2, http.MethodGet, "/balance", nil)
	balance := dataField(t, w, "balance").(map[string]any)
	if balance["bank_balance"].(string) != "7" {
		t.Fatalf("replace touched another user's balance: %v", balance["bank_balance"])
	}
}

func TestDeleteTransactionUnknownIDNotFound(t *testing.T) {
	routes := newBankRoutes(t)

	w := doJSON(t, routes.user1, http.MethodDelete, "/bank/99", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetBalanceBySiteKeys(t *testing.T) {
	routes := newBankRoutes(t)

	doForm(t, routes.user1, http.MethodPost, "/bank", url.Values{
		"type": {"deposit"}, "amount": {"200"}, "site": {"CasinoX"},
	})

	w := doJSON(t, routes.user1, http.MethodGet, "/balance/by-site", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	balance := dataField(t, w, "balance").(map[string]any)
	bySite := balance["total_balance_by_website"].(map[string]any)
	if bySite["CasinoX"].(string) != "200" {
		t.Fatalf("expected CasinoX total 200, got %v", bySite["CasinoX"])
	}
}
