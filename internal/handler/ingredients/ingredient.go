package ingredients

import (
	"errors"
	"net/http"
	"strconv"

	"recipe-api/internal/api"
	"recipe-api/internal/database"
	"recipe-api/internal/middleware"
	"recipe-api/internal/service"
	"recipe-api/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

var (
	listIngredients  = store.ListIngredients
	updateIngredient = store.UpdateIngredient
	deleteIngredient = store.DeleteIngredient
)

func claimsFrom(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
	return claims, ok && claims.UserID != 0
}

// @Summary     List ingredients
// @Description 列出當前使用者的 ingredient，名稱由大到小。assigned_only 非零時僅列出有連結食譜者
// @Tags        ingredients
// @Produce     json
// @Param       assigned_only query int false "僅列出已指派者 (0/1)"
// @Success     200 {array}  api.IngredientResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipe/ingredients [get]
func ListIngredientsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		assignedOnly := false
		if s := c.QueryParam("assigned_only"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid assigned_only parameter"})
			}
			assignedOnly = v != 0
		}

		ingredients, err := listIngredients(c.Request().Context(), db, claims.UserID, assignedOnly)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		out := make([]api.IngredientResponse, 0, len(ingredients))
		for _, i := range ingredients {
			out = append(out, api.IngredientResponse{ID: i.ID, Name: i.Name})
		}
		return c.JSON(http.StatusOK, out)
	}
}

// @Summary     Rename an ingredient
// @Description 重新命名 ingredient，非擁有者視同不存在
// @Tags        ingredients
// @Accept      json
// @Produce     json
// @Param       ingredient_id path int true "Ingredient ID"
// @Param       ingredient body api.UpdateRecipeAttrRequest true "新名稱"
// @Success     200 {object} api.IngredientResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipe/ingredients/{ingredient_id} [put]
func UpdateIngredientHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("ingredient_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid ingredient ID"})
		}

		var req api.UpdateRecipeAttrRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		if err := updateIngredient(c.Request().Context(), db, claims.UserID, id, req.Name); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "ingredient not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, api.IngredientResponse{ID: id, Name: req.Name})
	}
}

// @Summary     Delete an ingredient
// @Description 刪除 ingredient，連結列一併移除，非擁有者視同不存在
// @Tags        ingredients
// @Param       ingredient_id path int true "Ingredient ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipe/ingredients/{ingredient_id} [delete]
func DeleteIngredientHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("ingredient_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid ingredient ID"})
		}

		if err := deleteIngredient(c.Request().Context(), db, claims.UserID, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "ingredient not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.NoContent(http.StatusNoContent)
	}
}
