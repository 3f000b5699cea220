package errors

// Error codes returned in ErrorResponse.Error.
// Format: CATEGORY_SPECIFIC_DETAIL. The storefront maps these to localized copy.

const (
	// Authentication
	AuthUnauthorized = "AUTH_UNAUTHORIZED"
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// Authorization
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// Validation
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// Resources
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// Catalog
	ProductNotFound     = "PRODUCT_NOT_FOUND"
	ProductNotForSale   = "PRODUCT_NOT_FOR_SALE"
	CategoryNotFound    = "CATEGORY_NOT_FOUND"
	BundleNotFound      = "BUNDLE_NOT_FOUND"
	BundleInvalidConfig = "BUNDLE_INVALID_CONFIG"

	// Cart
	CartEmpty           = "CART_EMPTY"
	CartSessionMissing  = "CART_SESSION_MISSING"
	CartCheckoutMissing = "CART_CHECKOUT_UNAVAILABLE"

	// Settings
	SettingUnknownKey   = "SETTING_UNKNOWN_KEY"
	SettingInvalidValue = "SETTING_INVALID_VALUE"

	// Uploads
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// Internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
