package utils

import "errors"

var (
	// authentication
	ErrTokenMissing       = errors.New("token missing")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrAuthRequired       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ownership / lookup
	ErrChatNotFound     = errors.New("chat not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrPaymentNotFound  = errors.New("payment not found")

	// validation
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrNoExtractedText     = errors.New("no text available for analysis")
	ErrInvalidPlan         = errors.New("invalid plan type")
	ErrPasswordNotSet      = errors.New("account has no password")
	ErrPaymentNotCompleted = errors.New("payment not completed")

	// conflicts and quota
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrAccountExists       = errors.New("email registered with a password")
	ErrMessageLimitReached = errors.New("message limit reached")

	// upstream
	ErrOAuthNotConfigured     = errors.New("google oauth not configured")
	ErrOAuthState             = errors.New("invalid oauth state")
	ErrOAuthExchange          = errors.New("oauth code exchange failed")
	ErrOAuthUserInfo          = errors.New("oauth user info failed")
	ErrOAuthMissingEmail      = errors.New("oauth profile missing email")
	ErrUnexpectedBehaviorOfAI = errors.New("language model call failed")
	ErrPaymentProvider        = errors.New("payment provider error")
	ErrPaymentsDisabled       = errors.New("payments not configured")

	ErrDatabaseError = errors.New("database error")
)
