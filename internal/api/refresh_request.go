package api

// swagger:model api.RefreshRequest
type RefreshRequest struct {
	RefreshToken string `form:"refresh_token" validate:"required" example:"..."`
}
