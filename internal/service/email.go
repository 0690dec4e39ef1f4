// File: internal/service/email.go
package service

import (
	"errors"
	"net/mail"
	"strings"
)

// NormalizeEmail 將 email 的網域部分轉為小寫，local part 大小寫保留。
// 空字串或格式錯誤回傳錯誤。
func NormalizeEmail(email string) (string, error) {
	if email == "" {
		return "", errors.New("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", errors.New("invalid email format")
	}
	at := strings.LastIndex(email, "@")
	return email[:at] + "@" + strings.ToLower(email[at+1:]), nil
}
