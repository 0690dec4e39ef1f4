package api

// RecipeAttrInput 為巢狀 tag / ingredient 的寫入格式，僅以名稱指涉，
// 由伺服端解析為既有列或新建列。
// swagger:model api.RecipeAttrInput
type RecipeAttrInput struct {
	Name string `json:"name" validate:"required" example:"Vegan"`
}

// swagger:model api.TagResponse
type TagResponse struct {
	ID   int    `json:"id" example:"1"`
	Name string `json:"name" example:"Vegan"`
}

// swagger:model api.IngredientResponse
type IngredientResponse struct {
	ID   int    `json:"id" example:"1"`
	Name string `json:"name" example:"Salt"`
}

// swagger:model api.UpdateRecipeAttrRequest
type UpdateRecipeAttrRequest struct {
	Name string `json:"name" validate:"required" example:"Dessert"`
}
