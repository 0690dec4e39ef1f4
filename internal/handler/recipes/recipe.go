package recipes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"recipe-api/internal/api"
	"recipe-api/internal/database"
	"recipe-api/internal/middleware"
	"recipe-api/internal/model"
	"recipe-api/internal/service"
	"recipe-api/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

var (
	listRecipes          = store.ListRecipes
	getRecipeByID        = store.GetRecipeByID
	createRecipe         = store.CreateRecipe
	updateRecipe         = store.UpdateRecipe
	deleteRecipe         = store.DeleteRecipe
	setRecipeTags        = store.SetRecipeTags
	setRecipeIngredients = store.SetRecipeIngredients
)

func claimsFrom(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
	return claims, ok && claims.UserID != 0
}

// parseIDList 解析逗號分隔的 id 列表，如 "1,2,3"。空字串回傳 nil。
func parseIDList(s string) ([]int32, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int32, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, int32(id))
	}
	return ids, nil
}

func attrNames(inputs []api.RecipeAttrInput) []string {
	names := make([]string, 0, len(inputs))
	for _, in := range inputs {
		names = append(names, in.Name)
	}
	return names
}

func toTagResponses(tags []model.Tag) []api.TagResponse {
	out := make([]api.TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, api.TagResponse{ID: t.ID, Name: t.Name})
	}
	return out
}

func toIngredientResponses(ingredients []model.Ingredient) []api.IngredientResponse {
	out := make([]api.IngredientResponse, 0, len(ingredients))
	for _, i := range ingredients {
		out = append(out, api.IngredientResponse{ID: i.ID, Name: i.Name})
	}
	return out
}

func toRecipeResponse(r *model.Recipe) api.RecipeResponse {
	return api.RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        toTagResponses(r.Tags),
		Ingredients: toIngredientResponses(r.Ingredients),
	}
}

func toRecipeDetailResponse(r *model.Recipe) api.RecipeDetailResponse {
	return api.RecipeDetailResponse{
		RecipeResponse: toRecipeResponse(r),
		Description:    r.Description,
		Image:          r.ImagePath,
	}
}

// @Summary     List recipes
// @Description 列出當前使用者的食譜，id 由大到小。可用 tags / ingredients 以逗號分隔 id 過濾
// @Tags        recipes
// @Produce     json
// @Param       tags        query string false "逗號分隔的 tag id 列表"
// @Param       ingredients query string false "逗號分隔的 ingredient id 列表"
// @Success     200 {array}  api.RecipeResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipe/recipes [get]
func ListRecipesHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		tagIDs, err := parseIDList(c.QueryParam("tags"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid tags parameter"})
		}
		ingredientIDs, err := parseIDList(c.QueryParam("ingredients"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid ingredients parameter"})
		}

		recipes, err := listRecipes(c.Request().Context(), db, claims.UserID, tagIDs, ingredientIDs)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		out := make([]api.RecipeResponse, 0, len(recipes))
		for i := range recipes {
			out = append(out, toRecipeResponse(&recipes[i]))
		}
		return c.JSON(http.StatusOK, out)
	}
}

// @Summary     Create a recipe
// @Description 建立食譜，巢狀 tags / ingredients 以名稱解析 (get-or-create)
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Param       recipe body api.CreateRecipeRequest true "食譜內容"
// @Success     201 {object} api.RecipeDetailResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipe/recipes [post]
func CreateRecipeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		var req api.CreateRecipeRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		recipe := &model.Recipe{
			UserID:      claims.UserID,
			Title:       req.Title,
			TimeMinutes: req.TimeMinutes,
			Price:       req.Price,
			Description: req.Description,
			Link:        req.Link,
		}
		if err := createRecipe(c.Request().Context(), db, recipe, attrNames(req.Tags), attrNames(req.Ingredients)); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		return c.JSON(http.StatusCreated, toRecipeDetailResponse(recipe))
	}
}

// @Summary     Get a recipe
// @Description 取得單筆食譜詳細資料，非擁有者視同不存在
// @Tags        recipes
// @Produce     json
// @Param       recipe_id path int true "食譜 ID"
// @Success     200 {object} api.RecipeDetailResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipe/recipes/{recipe_id} [get]
func GetRecipeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("recipe_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid recipe ID"})
		}

		recipe, err := getRecipeByID(c.Request().Context(), db, claims.UserID, id)
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "recipe not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, toRecipeDetailResponse(recipe))
	}
}

// @Summary     Replace a recipe
// @Description 全量更新食譜，tags / ingredients 以請求內容取代全部關聯
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Param       recipe_id path int true "食譜 ID"
// @Param       recipe body api.CreateRecipeRequest true "食譜內容"
// @Success     200 {object} api.RecipeDetailResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipe/recipes/{recipe_id} [put]
func ReplaceRecipeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("recipe_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid recipe ID"})
		}

		var req api.CreateRecipeRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		recipe := &model.Recipe{
			ID:          id,
			UserID:      claims.UserID,
			Title:       req.Title,
			TimeMinutes: req.TimeMinutes,
			Price:       req.Price,
			Description: req.Description,
			Link:        req.Link,
		}
		if err := updateRecipe(c.Request().Context(), db, recipe); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "recipe not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		tags, err := setRecipeTags(c.Request().Context(), db, claims.UserID, id, attrNames(req.Tags))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		recipe.Tags = tags

		ingredients, err := setRecipeIngredients(c.Request().Context(), db, claims.UserID, id, attrNames(req.Ingredients))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		recipe.Ingredients = ingredients

		return c.JSON(http.StatusOK, toRecipeDetailResponse(recipe))
	}
}

// @Summary     Partially update a recipe
// @Description 部分更新食譜，未提供的欄位不變；tags / ingredients 一旦提供即取代全部關聯
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Param       recipe_id path int true "食譜 ID"
// @Param       recipe body api.UpdateRecipeRequest true "欲更新的欄位"
// @Success     200 {object} api.RecipeDetailResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipe/recipes/{recipe_id} [patch]
func UpdateRecipeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("recipe_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid recipe ID"})
		}

		var req api.UpdateRecipeRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		recipe, err := getRecipeByID(c.Request().Context(), db, claims.UserID, id)
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "recipe not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		if req.Title != nil {
			recipe.Title = *req.Title
		}
		if req.TimeMinutes != nil {
			recipe.TimeMinutes = *req.TimeMinutes
		}
		if req.Price != nil {
			recipe.Price = *req.Price
		}
		if req.Description != nil {
			recipe.Description = *req.Description
		}
		if req.Link != nil {
			recipe.Link = *req.Link
		}

		if err := updateRecipe(c.Request().Context(), db, recipe); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "recipe not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		if req.Tags != nil {
			tags, err := setRecipeTags(c.Request().Context(), db, claims.UserID, id, attrNames(*req.Tags))
			if err != nil {
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
			}
			recipe.Tags = tags
		}
		if req.Ingredients != nil {
			ingredients, err := setRecipeIngredients(c.Request().Context(), db, claims.UserID, id, attrNames(*req.Ingredients))
			if err != nil {
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
			}
			recipe.Ingredients = ingredients
		}

		return c.JSON(http.StatusOK, toRecipeDetailResponse(recipe))
	}
}

// @Summary     Delete a recipe
// @Description 刪除食譜；tag / ingredient 本體保留
// @Tags        recipes
// @Param       recipe_id path int true "食譜 ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipe/recipes/{recipe_id} [delete]
func DeleteRecipeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("recipe_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid recipe ID"})
		}

		if err := deleteRecipe(c.Request().Context(), db, claims.UserID, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "recipe not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.NoContent(http.StatusNoContent)
	}
}
