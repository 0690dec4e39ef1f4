package api

// swagger:model api.UpdateMyPasswordRequest
type UpdateMyPasswordRequest struct {
	OldPassword string `form:"old_password" validate:"required" example:"OldSecret1!"`
	NewPassword string `form:"new_password" validate:"required,min=5" example:"NewSecret1!"`
}
