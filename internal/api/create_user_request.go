package api

// swagger:model api.CreateUserRequest
type CreateUserRequest struct {
	Name     string `form:"name" validate:"required" example:"Alice"`
	Email    string `form:"email" validate:"required,email" example:"alice@example.com"`
	Password string `form:"password" validate:"required,min=5" example:"Secret123!"`
}
