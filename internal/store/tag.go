package store

import (
	"context"
	"fmt"

	"recipe-api/internal/database"
	"recipe-api/internal/model"

	"github.com/jackc/pgx/v5"
)

// ListTags 回傳使用者的 tag，名稱由大到小。assignedOnly 時僅回傳
// 至少連結一筆食譜者；EXISTS 子查詢使多重連結不會重複出現。
func ListTags(ctx context.Context, db database.DB, userID int, assignedOnly bool) ([]model.Tag, error) {
	sql := `SELECT id, user_id, name FROM tags WHERE user_id = $1`
	if assignedOnly {
		sql += ` AND EXISTS (SELECT 1 FROM recipe_tags rt WHERE rt.tag_id = tags.id)`
	}
	sql += ` ORDER BY name DESC`

	rows, err := db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("ListTags: %w", err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name); err != nil {
			return nil, fmt.Errorf("ListTags: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListTags: %w", err)
	}
	return tags, nil
}

// UpdateTag 重新命名；擁有者不符回傳 pgx.ErrNoRows。
func UpdateTag(ctx context.Context, db database.DB, userID, tagID int, name string) error {
	tag, err := db.Exec(ctx,
		`UPDATE tags SET name = $1 WHERE id = $2 AND user_id = $3`,
		name, tagID, userID,
	)
	if err != nil {
		return fmt.Errorf("UpdateTag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateTag: %w", pgx.ErrNoRows)
	}
	return nil
}

// DeleteTag 刪除；擁有者不符回傳 pgx.ErrNoRows。
func DeleteTag(ctx context.Context, db database.DB, userID, tagID int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM tags WHERE id = $1 AND user_id = $2`,
		tagID, userID,
	)
	if err != nil {
		return fmt.Errorf("DeleteTag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteTag: %w", pgx.ErrNoRows)
	}
	return nil
}
