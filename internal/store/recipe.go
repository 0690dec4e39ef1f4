package store

import (
	"context"
	"fmt"

	"recipe-api/internal/database"
	"recipe-api/internal/model"

	"github.com/jackc/pgx/v5"
)

const recipeColumns = `id, user_id, title, time_minutes, price::text, description, link, image_path, created_at`

func scanRecipe(row pgx.Row, r *model.Recipe) error {
	return row.Scan(
		&r.ID,
		&r.UserID,
		&r.Title,
		&r.TimeMinutes,
		&r.Price,
		&r.Description,
		&r.Link,
		&r.ImagePath,
		&r.CreatedAt,
	)
}

// ListRecipes 回傳使用者的食譜，id 由大到小。tagIDs / ingredientIDs
// 為選用過濾條件：同一參數內為 OR，兩參數之間為 AND。EXISTS 子查詢
// 天然去重，不需 DISTINCT。
func ListRecipes(ctx context.Context, db database.DB, userID int, tagIDs, ingredientIDs []int32) ([]model.Recipe, error) {
	sql := `SELECT ` + recipeColumns + ` FROM recipes WHERE user_id = $1`
	args := []any{userID}
	if len(tagIDs) > 0 {
		args = append(args, tagIDs)
		sql += fmt.Sprintf(
			` AND EXISTS (SELECT 1 FROM recipe_tags rt WHERE rt.recipe_id = recipes.id AND rt.tag_id = ANY($%d))`,
			len(args))
	}
	if len(ingredientIDs) > 0 {
		args = append(args, ingredientIDs)
		sql += fmt.Sprintf(
			` AND EXISTS (SELECT 1 FROM recipe_ingredients ri WHERE ri.recipe_id = recipes.id AND ri.ingredient_id = ANY($%d))`,
			len(args))
	}
	sql += ` ORDER BY id DESC`

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ListRecipes: %w", err)
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		var r model.Recipe
		if err := scanRecipe(rows, &r); err != nil {
			return nil, fmt.Errorf("ListRecipes: %w", err)
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRecipes: %w", err)
	}

	if err := loadRecipeAttrs(ctx, db, recipes); err != nil {
		return nil, fmt.Errorf("ListRecipes: %w", err)
	}
	return recipes, nil
}

// GetRecipeByID 取得使用者自己的食譜，非擁有者視同不存在 (pgx.ErrNoRows)。
func GetRecipeByID(ctx context.Context, db database.DB, userID, recipeID int) (*model.Recipe, error) {
	row := db.QueryRow(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = $1 AND user_id = $2`,
		recipeID, userID,
	)
	r := &model.Recipe{}
	if err := scanRecipe(row, r); err != nil {
		return nil, fmt.Errorf("GetRecipeByID: %w", err)
	}
	single := []model.Recipe{*r}
	if err := loadRecipeAttrs(ctx, db, single); err != nil {
		return nil, fmt.Errorf("GetRecipeByID: %w", err)
	}
	return &single[0], nil
}

// CreateRecipe 新增食譜並解析 tag / ingredient 名稱 (get-or-create)。
func CreateRecipe(ctx context.Context, db database.DB, r *model.Recipe, tagNames, ingredientNames []string) error {
	row := db.QueryRow(ctx,
		`INSERT INTO recipes (user_id, title, time_minutes, price, description, link)
		 VALUES ($1, $2, $3, $4::numeric, $5, $6)
		 RETURNING id, created_at`,
		r.UserID,
		r.Title,
		r.TimeMinutes,
		r.Price,
		r.Description,
		r.Link,
	)
	if err := row.Scan(&r.ID, &r.CreatedAt); err != nil {
		return fmt.Errorf("CreateRecipe: %w", err)
	}

	tags, err := SetRecipeTags(ctx, db, r.UserID, r.ID, tagNames)
	if err != nil {
		return fmt.Errorf("CreateRecipe: %w", err)
	}
	r.Tags = tags

	ingredients, err := SetRecipeIngredients(ctx, db, r.UserID, r.ID, ingredientNames)
	if err != nil {
		return fmt.Errorf("CreateRecipe: %w", err)
	}
	r.Ingredients = ingredients
	return nil
}

// UpdateRecipe 更新基本欄位，不動關聯。擁有者不符回傳 pgx.ErrNoRows。
func UpdateRecipe(ctx context.Context, db database.DB, r *model.Recipe) error {
	tag, err := db.Exec(ctx,
		`UPDATE recipes
		 SET title = $1, time_minutes = $2, price = $3::numeric, description = $4, link = $5
		 WHERE id = $6 AND user_id = $7`,
		r.Title,
		r.TimeMinutes,
		r.Price,
		r.Description,
		r.Link,
		r.ID,
		r.UserID,
	)
	if err != nil {
		return fmt.Errorf("UpdateRecipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateRecipe: %w", pgx.ErrNoRows)
	}
	return nil
}

// UpdateRecipeImage 覆寫 image_path。擁有者不符回傳 pgx.ErrNoRows。
func UpdateRecipeImage(ctx context.Context, db database.DB, userID, recipeID int, path string) error {
	tag, err := db.Exec(ctx,
		`UPDATE recipes SET image_path = $1 WHERE id = $2 AND user_id = $3`,
		path, recipeID, userID,
	)
	if err != nil {
		return fmt.Errorf("UpdateRecipeImage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateRecipeImage: %w", pgx.ErrNoRows)
	}
	return nil
}

// DeleteRecipe 刪除食譜；連結列隨 CASCADE 刪除，tag / ingredient 本體保留。
func DeleteRecipe(ctx context.Context, db database.DB, userID, recipeID int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM recipes WHERE id = $1 AND user_id = $2`,
		recipeID, userID,
	)
	if err != nil {
		return fmt.Errorf("DeleteRecipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteRecipe: %w", pgx.ErrNoRows)
	}
	return nil
}

// SetRecipeTags 以名稱解析後的集合取代食譜的全部 tag 關聯。
// 空集合即清空。名稱解析為 per-(user,name) get-or-create。
func SetRecipeTags(ctx context.Context, db database.DB, userID, recipeID int, names []string) ([]model.Tag, error) {
	if _, err := db.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, recipeID); err != nil {
		return nil, fmt.Errorf("SetRecipeTags: %w", err)
	}
	tags := []model.Tag{}
	for _, name := range names {
		row := db.QueryRow(ctx,
			`INSERT INTO tags (user_id, name) VALUES ($1, $2)
			 ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			userID, name,
		)
		t := model.Tag{UserID: userID, Name: name}
		if err := row.Scan(&t.ID); err != nil {
			return nil, fmt.Errorf("SetRecipeTags: %w", err)
		}
		if _, err := db.Exec(ctx,
			`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			recipeID, t.ID,
		); err != nil {
			return nil, fmt.Errorf("SetRecipeTags: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// SetRecipeIngredients 同 SetRecipeTags，作用於 ingredient。
func SetRecipeIngredients(ctx context.Context, db database.DB, userID, recipeID int, names []string) ([]model.Ingredient, error) {
	if _, err := db.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipeID); err != nil {
		return nil, fmt.Errorf("SetRecipeIngredients: %w", err)
	}
	ingredients := []model.Ingredient{}
	for _, name := range names {
		row := db.QueryRow(ctx,
			`INSERT INTO ingredients (user_id, name) VALUES ($1, $2)
			 ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			userID, name,
		)
		ing := model.Ingredient{UserID: userID, Name: name}
		if err := row.Scan(&ing.ID); err != nil {
			return nil, fmt.Errorf("SetRecipeIngredients: %w", err)
		}
		if _, err := db.Exec(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			recipeID, ing.ID,
		); err != nil {
			return nil, fmt.Errorf("SetRecipeIngredients: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, nil
}

// loadRecipeAttrs 以兩個查詢批次載入一組食譜的 tags 與 ingredients。
func loadRecipeAttrs(ctx context.Context, db database.DB, recipes []model.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]int32, len(recipes))
	index := make(map[int]int, len(recipes))
	for i := range recipes {
		ids[i] = int32(recipes[i].ID)
		index[recipes[i].ID] = i
		recipes[i].Tags = []model.Tag{}
		recipes[i].Ingredients = []model.Ingredient{}
	}

	rows, err := db.Query(ctx,
		`SELECT rt.recipe_id, t.id, t.user_id, t.name
		 FROM recipe_tags rt
		 JOIN tags t ON t.id = rt.tag_id
		 WHERE rt.recipe_id = ANY($1)
		 ORDER BY t.name`,
		ids,
	)
	if err != nil {
		return err
	}
	for rows.Next() {
		var recipeID int
		var t model.Tag
		if err := rows.Scan(&recipeID, &t.ID, &t.UserID, &t.Name); err != nil {
			rows.Close()
			return err
		}
		i := index[recipeID]
		recipes[i].Tags = append(recipes[i].Tags, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = db.Query(ctx,
		`SELECT ri.recipe_id, i.id, i.user_id, i.name
		 FROM recipe_ingredients ri
		 JOIN ingredients i ON i.id = ri.ingredient_id
		 WHERE ri.recipe_id = ANY($1)
		 ORDER BY i.name`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var recipeID int
		var ing model.Ingredient
		if err := rows.Scan(&recipeID, &ing.ID, &ing.UserID, &ing.Name); err != nil {
			return err
		}
		i := index[recipeID]
		recipes[i].Ingredients = append(recipes[i].Ingredients, ing)
	}
	return rows.Err()
}
