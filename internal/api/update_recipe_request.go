package api

// UpdateRecipeRequest 為 PATCH 部分更新格式。指標區分「未提供」與
// 零值：未提供的欄位不變；tags / ingredients 一旦提供（含空陣列）
// 即以解析後集合取代全部關聯。
// swagger:model api.UpdateRecipeRequest
type UpdateRecipeRequest struct {
	Title       *string            `json:"title" validate:"omitempty" example:"New Title"`
	TimeMinutes *int               `json:"time_minutes" validate:"omitempty,min=1" example:"20"`
	Price       *string            `json:"price" validate:"omitempty,numeric" example:"12.50"`
	Description *string            `json:"description"`
	Link        *string            `json:"link" validate:"omitempty,url"`
	Tags        *[]RecipeAttrInput `json:"tags" validate:"omitempty,dive"`
	Ingredients *[]RecipeAttrInput `json:"ingredients" validate:"omitempty,dive"`
}
