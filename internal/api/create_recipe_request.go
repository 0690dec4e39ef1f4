package api

// CreateRecipeRequest 同時作為 PUT 全量更新的請求格式：
// 所有可寫欄位必填，payload 中的 user 一律忽略。
// swagger:model api.CreateRecipeRequest
type CreateRecipeRequest struct {
	Title       string            `json:"title" validate:"required" example:"Chocolate Cheesecake"`
	TimeMinutes int               `json:"time_minutes" validate:"required,min=1" example:"30"`
	Price       string            `json:"price" validate:"required,numeric" example:"10.00"`
	Description string            `json:"description" example:"Rich and creamy"`
	Link        string            `json:"link" validate:"omitempty,url" example:"https://example.com/recipe.pdf"`
	Tags        []RecipeAttrInput `json:"tags" validate:"dive"`
	Ingredients []RecipeAttrInput `json:"ingredients" validate:"dive"`
}
