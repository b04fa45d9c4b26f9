package dto

// GoogleSignInDTO carries the ID token from Google Sign-In
type GoogleSignInDTO struct {
	IDToken string `json:"id_token" validate:"required"`
}

// UserCreateDTO is used by admins to create landlords
type UserCreateDTO struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// TenantCreateDTO creates a tenant and moves them into a vacant room
type TenantCreateDTO struct {
	UserCreateDTO
	RoomID        string `json:"room_id" validate:"required,uuid"`
	BillingDueDay int    `json:"billing_due_day" validate:"required,min=1,max=31"`
}

// UploadResponseDTO is the public URL of an uploaded image
type UploadResponseDTO struct {
	URL string `json:"url"`
}

// SignedURLDTO is a short-lived download link
type SignedURLDTO struct {
	URL string `json:"url"`
}

// ErrorDTO is the body of every error response
type ErrorDTO struct {
	Error string `json:"error"`
}
