// File: internal/handler/auth/refresh.go
package auth

import (
	"fmt"
	"net/http"

	"recipe-api/internal/api"
	"recipe-api/internal/cache"
	"recipe-api/internal/database"
	"recipe-api/internal/service"
	"recipe-api/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	validateRefreshToken = service.ValidateRefreshToken
	revokeRefreshToken   = service.RevokeRefreshToken
	getUserByID          = store.GetUserByID
)

// RefreshHandler 以 refresh token 換發新令牌，舊 token 即刻失效 (rotation)
// @Summary     換發存取令牌
// @Description 驗證 refresh token 後換發新的存取令牌與 refresh token，舊 token 即刻失效
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       refresh_token formData string true "Refresh token"
// @Success     200 {object} api.TokenResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/refresh [post]
func RefreshHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RefreshRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		data, err := validateRefreshToken(c.Request().Context(), rdb, req.RefreshToken)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid refresh token"})
		}

		// 重新撈使用者，帳號已刪除的 token 不予換發。
		user, err := getUserByID(c.Request().Context(), db, data.UserID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid refresh token"})
		}

		if err := revokeRefreshToken(c.Request().Context(), rdb, req.RefreshToken); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: fmt.Sprintf("failed to revoke refresh token: %v", err)})
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
