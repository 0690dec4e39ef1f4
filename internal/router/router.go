// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"recipe-api/internal/cache"
	"recipe-api/internal/database"
	"recipe-api/internal/handler"
	"recipe-api/internal/handler/auth"
	"recipe-api/internal/handler/ingredients"
	"recipe-api/internal/handler/recipes"
	"recipe-api/internal/handler/tags"
	"recipe-api/internal/handler/users"
	"recipe-api/internal/middleware"
	"recipe-api/internal/storage"
	"recipe-api/internal/worker"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, rdb cache.Cache, images *storage.Images, wp worker.Pool) {
	api := e.Group("/api")

	// 健康檢查（需登入）
	api.GET("/ping", handler.PingHandler(db), middleware.RequireAuth)

	// 註冊與登入
	api.POST("/users", users.CreateUserHandler(db))
	api.POST("/auth/login", auth.LoginHandler(db, rdb))
	api.POST("/auth/refresh", auth.RefreshHandler(db, rdb))

	// 取得、更新、刪除當前使用者個人資料
	apiUsersMe := api.Group("/users/me", middleware.RequireAuth)
	apiUsersMe.GET("", users.GetMyUserHandler(db))
	apiUsersMe.PUT("", users.UpdateMyUserHandler(db))
	apiUsersMe.DELETE("", users.DeleteMyUserHandler(db))
	apiUsersMe.PATCH("/password", users.UpdateMyUserPasswordHandler(db))

	// Superuser 專屬 Users 管理
	api.GET("/users/:user_id", users.GetUserHandler(db), middleware.RequireSuperuser)
	api.PUT("/users/:user_id", users.UpdateUserHandler(db), middleware.RequireSuperuser)
	api.DELETE("/users/:user_id", users.DeleteUserHandler(db), middleware.RequireSuperuser)

	// 食譜與其屬性，皆以當前使用者為範圍
	apiRecipe := api.Group("/recipe", middleware.RequireAuth)
	apiRecipe.GET("/recipes", recipes.ListRecipesHandler(db))
	apiRecipe.POST("/recipes", recipes.CreateRecipeHandler(db))
	apiRecipe.GET("/recipes/:recipe_id", recipes.GetRecipeHandler(db))
	apiRecipe.PUT("/recipes/:recipe_id", recipes.ReplaceRecipeHandler(db))
	apiRecipe.PATCH("/recipes/:recipe_id", recipes.UpdateRecipeHandler(db))
	apiRecipe.DELETE("/recipes/:recipe_id", recipes.DeleteRecipeHandler(db))
	apiRecipe.POST("/recipes/:recipe_id/upload-image", recipes.UploadImageHandler(db, images, wp))

	apiRecipe.GET("/tags", tags.ListTagsHandler(db))
	apiRecipe.PUT("/tags/:tag_id", tags.UpdateTagHandler(db))
	apiRecipe.PATCH("/tags/:tag_id", tags.UpdateTagHandler(db))
	apiRecipe.DELETE("/tags/:tag_id", tags.DeleteTagHandler(db))

	apiRecipe.GET("/ingredients", ingredients.ListIngredientsHandler(db))
	apiRecipe.PUT("/ingredients/:ingredient_id", ingredients.UpdateIngredientHandler(db))
	apiRecipe.PATCH("/ingredients/:ingredient_id", ingredients.UpdateIngredientHandler(db))
	apiRecipe.DELETE("/ingredients/:ingredient_id", ingredients.DeleteIngredientHandler(db))
}
