package handler

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"gambling-ledger/internal/middleware"
	"gambling-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// cookie lifetime for the login token
const cookieMaxAge = 30 * 24 * 60 * 60 // 30 days

// AuthHandler signs users in against the configured allow-list. There is no
// registry and no password: the code is both credential and partition key.
type AuthHandler struct {
	JWTSecret  string
	TokenTTL   time.Duration
	ValidCodes []string
}

func NewAuthHandler(jwtSecret string, ttlHours int, validCodes []string) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		JWTSecret:  jwtSecret,
		TokenTTL:   time.Duration(ttlHours) * time.Hour,
		ValidCodes: validCodes,
	}
}

type loginReq struct {
	UserCode string `form:"user_code" json:"user_code" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, bindMsg(err))
		return
	}

	req.UserCode = strings.TrimSpace(req.UserCode)
	if !slices.Contains(h.ValidCodes, req.UserCode) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid code, try again")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, req.UserCode, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "generate token failed")
		return
	}

	c.SetCookie(middleware.CookieName, token, cookieMaxAge, "/", "", false, true)
	util.Success(c, util.Response{
		"token":     token,
		"user_code": req.UserCode,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.CookieName, "", -1, "/", "", false, true)
	util.Success(c, util.Response{
		"message": "logged out",
	})
}

// GetMe reports the authenticated user code.
func GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	util.Success(c, util.Response{
		"user_code": user,
	})
}
