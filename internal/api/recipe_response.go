package api

// RecipeResponse 為列表視圖，不含 description 與 image。
// swagger:model api.RecipeResponse
type RecipeResponse struct {
	ID          int                  `json:"id" example:"1"`
	Title       string               `json:"title" example:"Chocolate Cheesecake"`
	TimeMinutes int                  `json:"time_minutes" example:"30"`
	Price       string               `json:"price" example:"10.00"`
	Link        string               `json:"link" example:"https://example.com/recipe.pdf"`
	Tags        []TagResponse        `json:"tags"`
	Ingredients []IngredientResponse `json:"ingredients"`
}

// RecipeDetailResponse 為單筆視圖，補上 description 與 image。
// swagger:model api.RecipeDetailResponse
type RecipeDetailResponse struct {
	RecipeResponse
	Description string `json:"description" example:"Rich and creamy"`
	Image       string `json:"image" example:"recipe/3f8e1f68.jpg"`
}

// swagger:model api.RecipeImageResponse
type RecipeImageResponse struct {
	ID    int    `json:"id" example:"1"`
	Image string `json:"image" example:"recipe/3f8e1f68.jpg"`
}
