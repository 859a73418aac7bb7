// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess       = "success"
	KeyInternalError = "error.internal"
	KeyRateLimited   = "error.rate_limited"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginFirst         = "auth.login_first"
	KeyAuthForbidden          = "auth.forbidden"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Accounts
	KeyUserNotFound    = "user.not_found"
	KeyUserDeleted     = "user.deleted"
	KeyUserInvalidType = "user.invalid_type"

	// Products
	KeyProductCreated      = "product.created"
	KeyProductDeleted      = "product.deleted"
	KeyProductNotFound     = "product.not_found"
	KeyProductInvalidPrice = "product.invalid_price"

	// Orders
	KeyOrderPlaced            = "order.placed"
	KeyOrderNotFound          = "order.not_found"
	KeyOrderStatusUpdated     = "order.status_updated"
	KeyOrderInvalidStatus     = "order.invalid_status"
	KeyOrderInvalidTransition = "order.invalid_transition"
	KeyOrderStatusConflict    = "order.status_conflict"

	// Admin
	KeyAdminAccessDenied         = "admin.access_denied"
	KeyAdminConfirmationRequired = "admin.confirmation_required"
	KeyAdminConfirmationInvalid  = "admin.confirmation_invalid"
	KeyAdminExportCreated        = "admin.export_created"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
