package auth

import "errors"

// Code names an authentication failure. The values match the provider codes
// mobile clients already understand.
type Code string

const (
	CodeInvalidCredential Code = "auth/invalid-credential"
	CodeUserDisabled      Code = "auth/user-disabled"
	CodeInvalidEmail      Code = "auth/invalid-email"
	CodeUserNotFound      Code = "auth/user-not-found"
	CodeEmailInUse        Code = "auth/email-already-in-use"
	CodeWeakPassword      Code = "auth/weak-password"
	CodeMissingFields     Code = "auth/missing-fields"
	CodePasswordMismatch  Code = "auth/password-mismatch"
	CodePasswordTooLong   Code = "auth/password-too-long"
	CodeInvalidSession    Code = "auth/invalid-session"
	CodeUnknown           Code = "auth/unknown"
)

// Form fields an error highlights.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
)

// Error is an authentication failure with a user-facing message and the form
// fields it concerns.
type Error struct {
	Code    Code     `json:"code"`
	Message string   `json:"error"`
	Fields  []string `json:"fields,omitempty"`
}

func (e *Error) Error() string { return string(e.Code) + ": " + e.Message }

var messages = map[Code]Error{
	CodeInvalidCredential: {Message: "Invalid email or password.", Fields: []string{FieldEmail, FieldPassword}},
	CodeUserDisabled:      {Message: "This account has been disabled."},
	CodeInvalidEmail:      {Message: "Invalid email format.", Fields: []string{FieldEmail}},
	CodeUserNotFound:      {Message: "No account found with this email.", Fields: []string{FieldEmail}},
	CodeEmailInUse:        {Message: "Email is already registered.", Fields: []string{FieldEmail}},
	CodeWeakPassword:      {Message: "Password should be at least 6 characters.", Fields: []string{FieldPassword}},
	CodeMissingFields:     {Message: "Please fill in all required fields."},
	CodePasswordMismatch:  {Message: "Passwords do not match.", Fields: []string{FieldPassword, FieldConfirmPassword}},
	CodePasswordTooLong:   {Message: "Password must be at most 72 characters.", Fields: []string{FieldPassword}},
	CodeInvalidSession:    {Message: "Your session has expired. Please log in again."},
	CodeUnknown:           {Message: "Something went wrong. Please try again."},
}

// NewError builds the Error for code. Unknown codes get the generic message.
func NewError(code Code) *Error {
	m, ok := messages[code]
	if !ok {
		m = messages[CodeUnknown]
	}
	return &Error{
		Code:    code,
		Message: m.Message,
		Fields:  append([]string(nil), m.Fields...),
	}
}

// MissingFields reports which required fields were left blank.
func MissingFields(fields ...string) *Error {
	e := NewError(CodeMissingFields)
	e.Fields = fields
	return e
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err is an auth error with the given code.
func Is(err error, code Code) bool {
	e, ok := AsError(err)
	return ok && e.Code == code
}
