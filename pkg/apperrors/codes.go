package apperrors

import "net/http"

// ErrorCode is the closed set of error kinds the API can return. Clients
// translate these into localized messages, so adding or renaming one means
// updating the frontend localization strings as well.
type ErrorCode string

const (
	// Infrastructure failures
	CodeDbError             ErrorCode = "DbError"
	CodeDbConnAcquire       ErrorCode = "DbConnAcquire"
	CodeDbTransactionBegin  ErrorCode = "DbTransactionBegin"
	CodeDbTransactionCommit ErrorCode = "DbTransactionCommit"

	// Input validation
	CodeUsernameTooShort   ErrorCode = "UsernameTooShort"
	CodePasswordTooShort   ErrorCode = "PasswordTooShort"
	CodePasswordsDontMatch ErrorCode = "PasswordsDontMatch"
	CodeInvalidCredentials ErrorCode = "InvalidCredentials"
	CodeUsernameTaken      ErrorCode = "UsernameTaken"
	CodeSlugTaken          ErrorCode = "SlugTaken"

	// Sessions
	CodeMissingSession ErrorCode = "MissingSession"
	CodeInvalidSession ErrorCode = "InvalidSession"

	// Resources
	CodeNoSuchSlug ErrorCode = "NoSuchSlug"
	CodeNoSuchFile ErrorCode = "NoSuchFile"
)

// httpStatus maps every error code onto the HTTP status it travels with.
func httpStatus(code ErrorCode) int {
	switch code {
	case CodeUsernameTooShort, CodePasswordTooShort, CodePasswordsDontMatch,
		CodeInvalidCredentials, CodeUsernameTaken, CodeSlugTaken:
		return http.StatusBadRequest
	case CodeMissingSession, CodeInvalidSession:
		return http.StatusForbidden
	case CodeNoSuchSlug, CodeNoSuchFile:
		return http.StatusNotFound
	case CodeDbConnAcquire:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
