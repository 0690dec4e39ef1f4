// File: internal/model/tag.go
package model

type Tag struct {
	ID     int    `db:"id" json:"id"`
	UserID int    `db:"user_id" json:"-"`
	Name   string `db:"name" json:"name"`
}
