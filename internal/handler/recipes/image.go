package recipes

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"recipe-api/internal/api"
	"recipe-api/internal/database"
	"recipe-api/internal/storage"
	"recipe-api/internal/store"
	"recipe-api/internal/worker"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

var updateRecipeImage = store.UpdateRecipeImage

// @Summary     Upload a recipe image
// @Description 上傳並取代食譜圖片，內容須為可解碼的圖片格式。舊圖片檔於背景刪除
// @Tags        recipes
// @Accept      multipart/form-data
// @Produce     json
// @Param       recipe_id path     int  true "食譜 ID"
// @Param       image     formData file true "圖片檔案"
// @Success     200 {object} api.RecipeImageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipe/recipes/{recipe_id}/upload-image [post]
func UploadImageHandler(db database.DB, images *storage.Images, wp worker.Pool) echo.HandlerFunc {
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

		fh, err := c.FormFile("image")
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "missing image file"})
		}
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "failed to open uploaded file"})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "failed to read uploaded file"})
		}

		rel, err := images.SaveRecipeImage(data)
		if errors.Is(err, storage.ErrNotImage) {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "file is not a valid image"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		if err := updateRecipeImage(c.Request().Context(), db, claims.UserID, id, rel); err != nil {
			// 寫檔後資料庫更新失敗，新檔案於背景清掉。
			wp.Submit(func() { _ = images.Remove(rel) })
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "recipe not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		if old := recipe.ImagePath; old != "" && old != rel {
			wp.Submit(func() { _ = images.Remove(old) })
		}

		return c.JSON(http.StatusOK, api.RecipeImageResponse{ID: id, Image: rel})
	}
}
