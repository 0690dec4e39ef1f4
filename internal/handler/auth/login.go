// File: internal/handler/auth/login.go
package auth

import (
	"fmt"
	"net/http"
	"time"

	"recipe-api/internal/api"
	"recipe-api/internal/cache"
	"recipe-api/internal/database"
	"recipe-api/internal/service"
	"recipe-api/internal/store"

	"github.com/labstack/echo/v4"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

var (
	normalizeEmail    = service.NormalizeEmail
	getUserByEmail    = store.GetUserByEmail
	authenticateUser  = service.AuthenticateUser
	issueAccessToken  = service.IssueAccessToken
	issueRefreshToken = service.IssueRefreshToken
)

// LoginHandler 使用 Email/Password 驗證並回傳存取令牌與 refresh token
// @Summary     登入使用者
// @Description 使用 Email 與 Password 進行驗證，回傳存取令牌與 refresh token
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       email    formData string true "使用者 Email"
// @Param       password formData string true "使用者密碼"
// @Success     200      {object} api.TokenResponse
// @Failure     400      {object} api.ErrorResponse
// @Failure     401      {object} api.ErrorResponse
// @Failure     500      {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		email, err := normalizeEmail(req.Email)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid email format"})
		}

		user, err := getUserByEmail(c.Request().Context(), db, email)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}

		if err := authenticateUser(c.Request().Context(), *user, req.Password); err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}

		accessToken, err := issueAccessToken(*user, accessTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: fmt.Sprintf("failed to issue token: %v", err)})
		}

		refreshToken, err := issueRefreshToken(c.Request().Context(), rdb, user.ID, user.IsSuperuser, refreshTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: fmt.Sprintf("failed to issue refresh token: %v", err)})
		}

		return c.JSON(http.StatusOK, api.TokenResponse{
			AccessToken:  accessToken,
			TokenType:    "Bearer",
			ExpiresIn:    int(accessTokenTTL.Seconds()),
			RefreshToken: refreshToken,
		})
	}
}
