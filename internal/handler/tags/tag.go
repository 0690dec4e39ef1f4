package tags

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
	listTags  = store.ListTags
	updateTag = store.UpdateTag
	deleteTag = store.DeleteTag
)

func claimsFrom(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
	return claims, ok && claims.UserID != 0
}

// @Summary     List tags
// @Description 列出當前使用者的 tag，名稱由大到小。assigned_only 非零時僅列出有連結食譜者
// @Tags        tags
// @Produce     json
// @Param       assigned_only query int false "僅列出已指派者 (0/1)"
// @Success     200 {array}  api.TagResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipe/tags [get]
func ListTagsHandler(db database.DB) echo.HandlerFunc {
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

		tags, err := listTags(c.Request().Context(), db, claims.UserID, assignedOnly)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		out := make([]api.TagResponse, 0, len(tags))
		for _, t := range tags {
			out = append(out, api.TagResponse{ID: t.ID, Name: t.Name})
		}
		return c.JSON(http.StatusOK, out)
	}
}

// @Summary     Rename a tag
// @Description 重新命名 tag，非擁有者視同不存在
// @Tags        tags
// @Accept      json
// @Produce     json
// @Param       tag_id path int true "Tag ID"
// @Param       tag body api.UpdateRecipeAttrRequest true "新名稱"
// @Success     200 {object} api.TagResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipe/tags/{tag_id} [put]
func UpdateTagHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("tag_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid tag ID"})
		}

		var req api.UpdateRecipeAttrRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		if err := updateTag(c.Request().Context(), db, claims.UserID, id, req.Name); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "tag not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, api.TagResponse{ID: id, Name: req.Name})
	}
}

// @Summary     Delete a tag
// @Description 刪除 tag，連結列一併移除，非擁有者視同不存在
// @Tags        tags
// @Param       tag_id path int true "Tag ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipe/tags/{tag_id} [delete]
func DeleteTagHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("tag_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid tag ID"})
		}

		if err := deleteTag(c.Request().Context(), db, claims.UserID, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "tag not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.NoContent(http.StatusNoContent)
	}
}
