package handler

import (
	"errors"
	"net/http"

	"gambling-ledger/internal/ledger"
	"gambling-ledger/internal/middleware"
	"gambling-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// currentUser pulls the authenticated user code out of the gin context.
func currentUser(c *gin.Context) (string, bool) {
	code := c.GetString(middleware.ContextUserKey)
	if code == "" {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return "", false
	}
	return code, true
}

// ledgerError maps the ledger failure taxonomy onto HTTP responses.
func ledgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
	case errors.Is(err, ledger.ErrPermissionDenied):
		util.Error(c, http.StatusForbidden, util.CodePermission, err.Error())
	case errors.Is(err, ledger.ErrInvalidInput):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, err.Error())
	}
}

// bindMsg turns a binding failure into a readable invalid-input message.
func bindMsg(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "invalid or missing field: " + verrs[0].Field()
	}
	return "invalid request payload"
}
