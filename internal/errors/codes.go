package errors

// Error code constants
// Format: CATEGORY_SPECIFIC_DETAIL
// The storefront frontend maps these codes to user-facing messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed token
	AuthCodeInvalid        = "AUTH_CODE_INVALID"        // wrong OTP code
	AuthCodeExpired        = "AUTH_CODE_EXPIRED"        // OTP code expired
	AuthTooManyAttempts    = "AUTH_TOO_MANY_ATTEMPTS"   // OTP attempts exhausted

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // no access
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // role missing from context
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // admin console only

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Cart (CART_) ====================
	CartLineNotFound       = "CART_LINE_NOT_FOUND"   // line id unknown
	CartInvalidQuantity    = "CART_INVALID_QUANTITY" // quantity must be positive
	CartSessionMissing     = "CART_SESSION_MISSING"  // no guest session cookie
	CartBackendUnavailable = "CART_BACKEND_UNAVAILABLE"

	// ==================== Catalog (PRODUCT_) ====================
	ProductNotFound = "PRODUCT_NOT_FOUND"

	// ==================== Coupons (COUPON_) ====================
	CouponNotFound      = "COUPON_NOT_FOUND"
	CouponCodeExists    = "COUPON_CODE_EXISTS"
	CouponExpired       = "COUPON_EXPIRED"
	CouponInactive      = "COUPON_INACTIVE"
	CouponMinimumNotMet = "COUPON_MINIMUM_NOT_MET"

	// ==================== Delivery (DELIVERY_) ====================
	DeliveryRegionNotFound = "DELIVERY_REGION_NOT_FOUND"
	DeliveryRegionExists   = "DELIVERY_REGION_EXISTS"

	// ==================== Announcements (ANNOUNCEMENT_) ====================
	AnnouncementNotFound = "ANNOUNCEMENT_NOT_FOUND"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound      = "ORDER_NOT_FOUND"
	OrderInvalidStatus = "ORDER_INVALID_STATUS"
	OrderExportFailed  = "ORDER_EXPORT_FAILED"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalBackendError  = "INTERNAL_BACKEND_ERROR" // commerce backend failure
)
