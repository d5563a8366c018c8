package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// AppError carries an ErrorCode across layer boundaries together with the
// underlying cause. Only the code leaves the process; the cause is for logs.
type AppError struct {
	Code     ErrorCode
	HTTPCode int
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %v", e.Code, e.Err)
	}
	return string(e.Code)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// MarshalJSON serializes only the code, so the wire envelope stays
// {"error": "<kind>"} regardless of what the wrapped error contains.
func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(e.Code))
}

func New(code ErrorCode) *AppError {
	return &AppError{Code: code, HTTPCode: httpStatus(code)}
}

// Wrap attaches a cause to a coded error.
func Wrap(code ErrorCode, err error) *AppError {
	return &AppError{Code: code, HTTPCode: httpStatus(code), Err: err}
}

// Is and As wrap the standard library so callers don't need two imports.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// AsAppError extracts an *AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// --- Factories, one per code that has call sites ---

func DbError(err error) *AppError             { return Wrap(CodeDbError, err) }
func DbConnAcquire(err error) *AppError       { return Wrap(CodeDbConnAcquire, err) }
func DbTransactionBegin(err error) *AppError  { return Wrap(CodeDbTransactionBegin, err) }
func DbTransactionCommit(err error) *AppError { return Wrap(CodeDbTransactionCommit, err) }

func UsernameTooShort() *AppError   { return New(CodeUsernameTooShort) }
func PasswordTooShort() *AppError   { return New(CodePasswordTooShort) }
func PasswordsDontMatch() *AppError { return New(CodePasswordsDontMatch) }
func InvalidCredentials() *AppError { return New(CodeInvalidCredentials) }
func UsernameTaken() *AppError      { return New(CodeUsernameTaken) }
func SlugTaken() *AppError          { return New(CodeSlugTaken) }

func MissingSession() *AppError { return New(CodeMissingSession) }
func InvalidSession() *AppError { return New(CodeInvalidSession) }

func NoSuchSlug() *AppError { return New(CodeNoSuchSlug) }
func NoSuchFile() *AppError { return New(CodeNoSuchFile) }
