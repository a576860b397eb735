package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"
	ErrViewOnly  ErrCode = "VIEW_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Submission-specific ───────────────────────────────────────────
	ErrUnregistered         ErrCode = "UNREGISTERED"
	ErrRegistrationMismatch ErrCode = "REGISTRATION_MISMATCH"
	ErrInsufficientDetail   ErrCode = "INSUFFICIENT_DETAIL"
	ErrDuplicateSubmission  ErrCode = "DUPLICATE_SUBMISSION"
	ErrAttendanceMarked     ErrCode = "ATTENDANCE_ALREADY_MARKED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrViewOnly:
		return "Your role has view-only access. Contact an administrator to make changes."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Submission-specific ───────────────────────────────────────────
	case ErrUnregistered:
		return "Please register for the event first before submitting this form."
	case ErrRegistrationMismatch:
		return "Registration ID does not match our records."
	case ErrInsufficientDetail:
		return "Please provide more detailed feedback (minimum 150 characters in total)."
	case ErrDuplicateSubmission:
		return "You have already submitted a response to this form."
	case ErrAttendanceMarked:
		return "Attendance Already Marked"

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
