package auth

// RegisterInput is the request body for user registration.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput accepts a username or email plus the password.
type LoginInput struct {
	Identity string `json:"identity" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ConfirmEmailInput carries the code from a confirmation email.
type ConfirmEmailInput struct {
	Code string `json:"code" validate:"required"`
}

// ForgotPasswordInput requests a password-reset email.
type ForgotPasswordInput struct {
	Identity string `json:"identity" validate:"required"`
}

// ResetPasswordInput carries the emailed reset code and the new password.
type ResetPasswordInput struct {
	Code     string `json:"code" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}
