package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/campusnet/campusnet/shared/api"
	"github.com/campusnet/campusnet/shared/errors"
	"github.com/campusnet/campusnet/shared/logger"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteErrorAndStatusCode renders err as {"msg": ...} and logs it with attrs.
// Errors without an explicit status are reported as a generic 500 so storage
// details do not leak.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error, attrs ...any) {
	status := errors.StatusCode(err)
	msg := err.Error()
	attrs = append(attrs, "status", status, "error", err)
	switch status {
	case http.StatusInternalServerError:
		logger.Log.Error("request failed", attrs...)
		msg = "Internal server error"
	case http.StatusBadGateway:
		logger.Log.Error("upstream failure", attrs...)
		msg = "Search service unavailable"
	default:
		logger.Log.Warn("request rejected", attrs...)
	}
	WriteJSON(w, status, api.ErrorResponse{Msg: msg})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid json body", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: 400}
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("body failed validation", "error", err)
		return &errors.ErrorWithStatusCode{Message: validationMessage(err), StatusCode: 400}
	}
	return nil
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "Required fields missing"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return "Required fields missing"
	case "max":
		return fmt.Sprintf("Field %s is too long", fe.Field())
	case "oneof":
		return fmt.Sprintf("Field %s has unsupported value", fe.Field())
	}
	return fmt.Sprintf("Field %s is invalid", fe.Field())
}
