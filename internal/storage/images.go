// File: internal/storage/images.go
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"path/filepath"

	"github.com/google/uuid"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ErrNotImage 表示上傳內容無法解碼為支援的圖片格式。
var ErrNotImage = errors.New("file is not a valid image")

// 測試可覆寫。
var (
	osWriteFile = os.WriteFile
	osRemove    = os.Remove
	newFileName = func() string { return uuid.NewString() }
)

// Images 負責食譜圖片在本機磁碟的存取。路徑一律以相對於 Root 的
// slash 形式對外，資料庫存的即為此相對路徑。
type Images struct {
	Root string
}

// NewImages 建立媒體根目錄並回傳 Images。
func NewImages(root string) (*Images, error) {
	if err := os.MkdirAll(filepath.Join(root, "recipe"), 0o755); err != nil {
		return nil, fmt.Errorf("NewImages: %w", err)
	}
	return &Images{Root: root}, nil
}

// DetectFormat 解碼檢查內容是否為支援的圖片，回傳格式名稱
// (jpeg/png/gif/webp)。解碼失敗回傳 ErrNotImage。
func DetectFormat(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrNotImage
	}
	return format, nil
}

// SaveRecipeImage 驗證並寫入圖片，檔名為隨機 uuid 加格式副檔名。
// 回傳相對路徑，如 recipe/3f8e...d2.jpg。
func (s *Images) SaveRecipeImage(data []byte) (string, error) {
	format, err := DetectFormat(data)
	if err != nil {
		return "", err
	}
	ext := format
	if format == "jpeg" {
		ext = "jpg"
	}
	rel := "recipe/" + newFileName() + "." + ext
	if err := osWriteFile(filepath.Join(s.Root, filepath.FromSlash(rel)), data, 0o644); err != nil {
		return "", fmt.Errorf("SaveRecipeImage: %w", err)
	}
	return rel, nil
}

// Remove 刪除相對路徑指向的檔案，檔案不存在視為成功。
func (s *Images) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	if err := osRemove(filepath.Join(s.Root, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("Remove: %w", err)
	}
	return nil
}
