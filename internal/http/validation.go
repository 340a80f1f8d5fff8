package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const passwordSpecials = "@$!%*?&"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("strongpassword", strongPassword)
	return v
}

// strongPassword requires at least one lowercase letter, one uppercase letter,
// one digit and one of @$!%*?&, and allows nothing else. Length is checked by
// min and max, so max counts bytes as well as characters.
func strongPassword(fl validator.FieldLevel) bool {
	var lower, upper, digit, special bool
	for _, r := range fl.Field().String() {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

type validationFailure struct {
	message string
	fields  map[string]string
}

func (v *validationFailure) Error() string { return v.message }

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return &validationFailure{message: "request body too large"}
		case errors.Is(err, io.EOF):
			return &validationFailure{message: "request body is required"}
		default:
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				return &validationFailure{
					message: "invalid request body",
					fields:  map[string]string{typeErr.Field: "has the wrong type"},
				}
			}
			return &validationFailure{message: "invalid JSON body"}
		}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return &validationFailure{message: "invalid JSON body"}
	}
	return validateStruct(dst)
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &validationFailure{message: "invalid request"}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &validationFailure{message: "validation failed", fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "mongodb":
		return "must be a valid id"
	case "strongpassword":
		return "must contain an uppercase letter, a lowercase letter, a digit and one of " + passwordSpecials
	default:
		return "is invalid"
	}
}

func respondValidation(w http.ResponseWriter, err error) {
	var vf *validationFailure
	if !errors.As(err, &vf) {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	respondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:  vf.message,
		Code:   "validation_error",
		Fields: vf.fields,
	})
}
