package store

import (
	"context"
	"fmt"

	"recipe-api/internal/database"
	"recipe-api/internal/model"

	"github.com/jackc/pgx/v5"
)

// ListIngredients 行為與 ListTags 相同，作用於 ingredient。
func ListIngredients(ctx context.Context, db database.DB, userID int, assignedOnly bool) ([]model.Ingredient, error) {
	sql := `SELECT id, user_id, name FROM ingredients WHERE user_id = $1`
	if assignedOnly {
		sql += ` AND EXISTS (SELECT 1 FROM recipe_ingredients ri WHERE ri.ingredient_id = ingredients.id)`
	}
	sql += ` ORDER BY name DESC`

	rows, err := db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("ListIngredients: %w", err)
	}
	defer rows.Close()

	ingredients := []model.Ingredient{}
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.ID, &ing.UserID, &ing.Name); err != nil {
			return nil, fmt.Errorf("ListIngredients: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListIngredients: %w", err)
	}
	return ingredients, nil
}

func UpdateIngredient(ctx context.Context, db database.DB, userID, ingredientID int, name string) error {
	tag, err := db.Exec(ctx,
		`UPDATE ingredients SET name = $1 WHERE id = $2 AND user_id = $3`,
		name, ingredientID, userID,
	)
	if err != nil {
		return fmt.Errorf("UpdateIngredient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateIngredient: %w", pgx.ErrNoRows)
	}
	return nil
}

func DeleteIngredient(ctx context.Context, db database.DB, userID, ingredientID int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM ingredients WHERE id = $1 AND user_id = $2`,
		ingredientID, userID,
	)
	if err != nil {
		return fmt.Errorf("DeleteIngredient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteIngredient: %w", pgx.ErrNoRows)
	}
	return nil
}
