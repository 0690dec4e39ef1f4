// File: internal/service/authentication.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"recipe-api/internal/cache"
	"recipe-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// CustomClaims 定義 JWT 負載內容
type CustomClaims struct {
	UserID      int  `json:"user_id"`
	IsSuperuser bool `json:"is_superuser"`
	jwt.RegisteredClaims
}

// RefreshTokenData 為存於 Redis 的 refresh token 負載。
type RefreshTokenData struct {
	UserID      int  `json:"user_id"`
	IsSuperuser bool `json:"is_superuser"`
}

const refreshTokenKeyPrefix = "refresh_token:"

// 測試可覆寫的函式。
var (
	randRead        = rand.Read
	jsonMarshal     = json.Marshal
	jsonUnmarshal   = json.Unmarshal
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

// AuthenticateUser 根據使用者結構和明文密碼驗證
func AuthenticateUser(ctx context.Context, user model.User, password string) error {
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return errors.New("invalid password")
	}
	return nil
}

// IssueAccessToken 依據使用者資訊與 TTL 產生 JWT
func IssueAccessToken(user model.User, ttl time.Duration) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET not set")
	}

	now := timeNow()
	claims := CustomClaims{
		UserID:      user.ID,
		IsSuperuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// IssueRefreshToken 產生隨機 refresh token 並存入 Redis，TTL 到期自動失效。
func IssueRefreshToken(ctx context.Context, c cache.Cache, userID int, isSuperuser bool, ttl time.Duration) (string, error) {
	raw := make([]byte, 32)
	if _, err := randRead(raw); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	data, err := jsonMarshal(RefreshTokenData{UserID: userID, IsSuperuser: isSuperuser})
	if err != nil {
		return "", err
	}
	if err := c.Set(ctx, refreshTokenKeyPrefix+token, data, ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateRefreshToken 讀取並解析 Redis 中的 refresh token。
func ValidateRefreshToken(ctx context.Context, c cache.Cache, token string) (*RefreshTokenData, error) {
	val, err := c.Get(ctx, refreshTokenKeyPrefix+token).Result()
	if err == redis.Nil {
		return nil, errors.New("refresh token not found")
	}
	if err != nil {
		return nil, err
	}
	var data RefreshTokenData
	if err := jsonUnmarshal([]byte(val), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// RevokeRefreshToken 刪除 Redis 中的 refresh token。
func RevokeRefreshToken(ctx context.Context, c cache.Cache, token string) error {
	return c.Del(ctx, refreshTokenKeyPrefix+token).Err()
}
