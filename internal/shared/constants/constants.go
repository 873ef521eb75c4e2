package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderXRequestID = "X-Request-ID"

	// Multipart form fields carrying photos
	FormFieldPhoto           = "photo"
	FormFieldResolutionPhoto = "resolution_photo"

	// Default upload cap when server.max_upload_mb is unset
	DefaultMaxUploadBytes = 10 << 20

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgValidationFailed    = "Validation failed"
)
