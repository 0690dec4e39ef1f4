// File: internal/store/recipe_test.go
package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"recipe-api/internal/database"
	"recipe-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

/* ---------- 假實作 ---------- */

// fakeRows 以 [][]any 逐列回傳，Scan 依 dest 型別指派。
type fakeRows struct {
	rows    [][]any
	i       int
	scanErr error
	rowsErr error
}

func (f *fakeRows) Close()                                       {}
func (f *fakeRows) Err() error                                   { return f.rowsErr }
func (f *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (f *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (f *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (f *fakeRows) RawValues() [][]byte                          { return nil }
func (f *fakeRows) Conn() *pgx.Conn                              { return nil }

func (f *fakeRows) Next() bool {
	f.i++
	return f.i <= len(f.rows)
}

func (f *fakeRows) Scan(dest ...any) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	vals := f.rows[f.i-1]
	for i, d := range dest {
		switch p := d.(type) {
		case *int:
			*p = vals[i].(int)
		case *string:
			*p = vals[i].(string)
		case *bool:
			*p = vals[i].(bool)
		case *time.Time:
			*p = vals[i].(time.Time)
		default:
			panic("fakeRows.Scan: unexpected dest type")
		}
	}
	return nil
}

// fakeRow 供 QueryRow 使用，語意同 fakeRows 的單列版本。
type fakeRow struct {
	vals    []any
	scanErr error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int:
			*p = r.vals[i].(int)
		case *string:
			*p = r.vals[i].(string)
		case *time.Time:
			*p = r.vals[i].(time.Time)
		default:
			panic("fakeRow.Scan: unexpected dest type")
		}
	}
	return nil
}

func recipeRow(id int, title string, now time.Time) []any {
	return []any{id, 1, title, 10, "5.00", "desc", "https://example.com", "", now}
}

/* ---------- 完整測試 ---------- */

func TestListRecipes(t *testing.T) {
	now := time.Now().UTC()

	t.Run("no filters", func(t *testing.T) {
		var gotSQL string
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
				if strings.Contains(sql, "FROM recipes") {
					gotSQL = sql
					require.Len(t, args, 1)
					return &fakeRows{rows: [][]any{recipeRow(2, "B", now), recipeRow(1, "A", now)}}, nil
				}
				// 關聯載入查詢
				return &fakeRows{}, nil
			},
		}
		recipes, err := ListRecipes(context.Background(), db, 1, nil, nil)
		require.NoError(t, err)
		require.Len(t, recipes, 2)
		require.Equal(t, 2, recipes[0].ID)
		require.NotContains(t, gotSQL, "EXISTS")
		require.Contains(t, gotSQL, "ORDER BY id DESC")
		require.Empty(t, recipes[0].Tags)
		require.Empty(t, recipes[0].Ingredients)
	})

	t.Run("tag and ingredient filters", func(t *testing.T) {
		var gotSQL string
		var gotArgs []any
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
				if strings.Contains(sql, "FROM recipes") {
					gotSQL = sql
					gotArgs = args
					return &fakeRows{rows: [][]any{recipeRow(3, "C", now)}}, nil
				}
				if strings.Contains(sql, "JOIN tags") {
					return &fakeRows{rows: [][]any{{3, 10, 1, "Vegan"}}}, nil
				}
				return &fakeRows{rows: [][]any{{3, 20, 1, "Salt"}}}, nil
			},
		}
		recipes, err := ListRecipes(context.Background(), db, 1, []int32{10}, []int32{20})
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		require.Contains(t, gotSQL, "rt.tag_id = ANY($2)")
		require.Contains(t, gotSQL, "ri.ingredient_id = ANY($3)")
		require.Len(t, gotArgs, 3)
		require.Equal(t, []model.Tag{{ID: 10, UserID: 1, Name: "Vegan"}}, recipes[0].Tags)
		require.Equal(t, []model.Ingredient{{ID: 20, UserID: 1, Name: "Salt"}}, recipes[0].Ingredients)
	})

	t.Run("query error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return nil, errors.New("q")
			},
		}
		_, err := ListRecipes(context.Background(), db, 1, nil, nil)
		require.Error(t, err)
	})
}

func TestGetRecipeByID(t *testing.T) {
	now := time.Now().UTC()

	t.Run("success", func(t *testing.T) {
		db := &database.FakeDB{
			// fakeRows 也實作 Scan，先 Next 一次即可充當單列 pgx.Row
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				require.Equal(t, 5, args[0])
				require.Equal(t, 1, args[1])
				r := &fakeRows{rows: [][]any{recipeRow(5, "Pie", now)}}
				r.Next()
				return r
			},
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return &fakeRows{}, nil
			},
		}
		recipe, err := GetRecipeByID(context.Background(), db, 1, 5)
		require.NoError(t, err)
		require.Equal(t, "Pie", recipe.Title)
		require.Equal(t, "5.00", recipe.Price)
	})

	t.Run("not owned", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeRow{scanErr: pgx.ErrNoRows}
			},
		}
		_, err := GetRecipeByID(context.Background(), db, 2, 5)
		require.ErrorIs(t, err, pgx.ErrNoRows)
	})
}

func TestCreateRecipe(t *testing.T) {
	now := time.Now().UTC()
	nextTagID := 9

	db := &database.FakeDB{
		QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			if strings.Contains(sql, "INSERT INTO recipes") {
				return &fakeRow{vals: []any{11, now}}
			}
			// tag / ingredient get-or-create
			nextTagID++
			return &fakeRow{vals: []any{nextTagID}}
		},
		ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}

	r := &model.Recipe{UserID: 1, Title: "Curry", TimeMinutes: 25, Price: "7.50"}
	err := CreateRecipe(context.Background(), db, r, []string{"Thai", "Dinner"}, []string{"Rice"})
	require.NoError(t, err)
	require.Equal(t, 11, r.ID)
	require.Len(t, r.Tags, 2)
	require.Equal(t, "Thai", r.Tags[0].Name)
	require.Len(t, r.Ingredients, 1)
	require.Equal(t, "Rice", r.Ingredients[0].Name)
}

func TestUpdateRecipe(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag("UPDATE 1"), nil
			},
		}
		require.NoError(t, UpdateRecipe(context.Background(), db, &model.Recipe{ID: 1, UserID: 1}))
	})

	t.Run("not owned", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag("UPDATE 0"), nil
			},
		}
		err := UpdateRecipe(context.Background(), db, &model.Recipe{ID: 1, UserID: 2})
		require.ErrorIs(t, err, pgx.ErrNoRows)
	})
}

func TestUpdateRecipeImage(t *testing.T) {
	db := &database.FakeDB{
		ExecFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
			require.Equal(t, "recipe/a.jpg", args[0])
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}
	require.NoError(t, UpdateRecipeImage(context.Background(), db, 1, 2, "recipe/a.jpg"))

	db.ExecFn = func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag("UPDATE 0"), nil
	}
	require.ErrorIs(t, UpdateRecipeImage(context.Background(), db, 1, 2, "x"), pgx.ErrNoRows)
}

func TestDeleteRecipe(t *testing.T) {
	db := &database.FakeDB{
		ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 1"), nil
		},
	}
	require.NoError(t, DeleteRecipe(context.Background(), db, 1, 2))

	db.ExecFn = func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag("DELETE 0"), nil
	}
	require.ErrorIs(t, DeleteRecipe(context.Background(), db, 1, 2), pgx.ErrNoRows)
}

func TestSetRecipeTags(t *testing.T) {
	t.Run("replace with resolved set", func(t *testing.T) {
		var deleted bool
		var linked []any
		ids := []int{30, 31}
		n := 0
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
				if strings.Contains(sql, "DELETE FROM recipe_tags") {
					deleted = true
				}
				if strings.Contains(sql, "INSERT INTO recipe_tags") {
					linked = append(linked, args[1])
				}
				return pgconn.NewCommandTag("INSERT 0 1"), nil
			},
			QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
				require.Contains(t, sql, "ON CONFLICT (user_id, name)")
				id := ids[n]
				n++
				return &fakeRow{vals: []any{id}}
			},
		}
		tags, err := SetRecipeTags(context.Background(), db, 1, 7, []string{"Vegan", "Quick"})
		require.NoError(t, err)
		require.True(t, deleted)
		require.Equal(t, []any{30, 31}, linked)
		require.Equal(t, "Vegan", tags[0].Name)
		require.Equal(t, 30, tags[0].ID)
	})

	t.Run("empty list clears associations", func(t *testing.T) {
		var deleted bool
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
				deleted = true
				return pgconn.NewCommandTag("DELETE 2"), nil
			},
		}
		tags, err := SetRecipeTags(context.Background(), db, 1, 7, nil)
		require.NoError(t, err)
		require.True(t, deleted)
		require.Empty(t, tags)
	})
}

func TestSetRecipeIngredients(t *testing.T) {
	db := &database.FakeDB{
		ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
		QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
			require.Equal(t, 1, args[0])
			require.Equal(t, "Salt", args[1])
			return &fakeRow{vals: []any{44}}
		},
	}
	ingredients, err := SetRecipeIngredients(context.Background(), db, 1, 7, []string{"Salt"})
	require.NoError(t, err)
	require.Len(t, ingredients, 1)
	require.Equal(t, 44, ingredients[0].ID)
}
