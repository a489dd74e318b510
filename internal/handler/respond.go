package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/pantrypal/internal/auth"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

func parseIDParam(r *http.Request) (int64, error) {
	return parsePathID(r, "id")
}

func parsePathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	return strconv.ParseInt(idStr, 10, 64)
}

// decodeJSON reads a JSON body into v and validates its struct tags. An empty
// body decodes to the zero value.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidJSON
	}
	return validate.Struct(v)
}

var errInvalidJSON = errors.New("invalid JSON")

// validationMessage turns a decode or validation error into a client-facing
// message naming the offending fields.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field())+" is "+describeTag(fe.Tag()))
	}
	return strings.Join(fields, ", ")
}

func describeTag(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "oneof":
		return "not an allowed value"
	case "max":
		return "too long"
	case "url", "http_url":
		return "not a valid URL"
	default:
		return "invalid"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeAuthError renders an auth error with its code and highlighted fields.
// Anything that is not an *auth.Error becomes a 500.
func writeAuthError(w http.ResponseWriter, err error) {
	ae, ok := auth.AsError(err)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, authStatus(ae.Code), ae)
}

func authStatus(code auth.Code) int {
	switch code {
	case auth.CodeInvalidCredential, auth.CodeInvalidSession:
		return http.StatusUnauthorized
	case auth.CodeUserDisabled:
		return http.StatusForbidden
	case auth.CodeUserNotFound:
		return http.StatusNotFound
	case auth.CodeEmailInUse:
		return http.StatusConflict
	case auth.CodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
