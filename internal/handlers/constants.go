package handlers

// Common error message constants shared across handlers
const (
	ErrMsgUserNotFound       = "User not found"
	ErrMsgInvalidRequestBody = "Invalid request body"
	ErrMsgUnauthorized       = "Unauthorized"
	ErrMsgInternal           = "Internal server error"
)

// Username and password length bounds enforced at registration
const (
	UsernameMinLength = 1
	UsernameMaxLength = 20
	PasswordMinLength = 10
	PasswordMaxLength = 72
)
