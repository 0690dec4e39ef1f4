// File: internal/model/recipe.go
package model

import "time"

// Recipe 的 Price 以十進位字串表示 (資料庫為 numeric)，避免浮點誤差。
type Recipe struct {
	ID          int          `db:"id" json:"id"`
	UserID      int          `db:"user_id" json:"-"`
	Title       string       `db:"title" json:"title"`
	TimeMinutes int          `db:"time_minutes" json:"time_minutes"`
	Price       string       `db:"price" json:"price"`
	Description string       `db:"description" json:"description"`
	Link        string       `db:"link" json:"link"`
	ImagePath   string       `db:"image_path" json:"image"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	Tags        []Tag        `json:"tags"`
	Ingredients []Ingredient `json:"ingredients"`
}
