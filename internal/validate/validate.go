// Package validate centralizes form validation.  Each entity has one
// entry point returning a structured list of field-level errors that
// every form handler surfaces the same way.
package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed field with a human-readable message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the non-nil result of a failed validation.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	// phone: at least 10 digits once formatting characters are removed
	_ = val.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		digits := 0
		for _, r := range fl.Field().String() {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		return digits >= 10
	})
	return val
}

// SignupInput is the signup form.
type SignupInput struct {
	FirstName       string `json:"firstName" validate:"required,min=2"`
	LastName        string `json:"lastName" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,phone"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	AcceptTerms     bool   `json:"acceptTerms" validate:"eq=true"`
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// BookingInput is the booking draft form.
type BookingInput struct {
	CarID          int      `json:"carId" validate:"required,gt=0"`
	PickupDate     string   `json:"pickupDate" validate:"required,datetime=2006-01-02"`
	ReturnDate     string   `json:"returnDate" validate:"required,datetime=2006-01-02"`
	PickupTime     string   `json:"pickupTime" validate:"required,datetime=15:04"`
	ReturnTime     string   `json:"returnTime" validate:"required,datetime=15:04"`
	PickupLocation string   `json:"pickupLocation" validate:"required"`
	Extras         []string `json:"extras"`
}

// Signup validates the signup form.
func Signup(in SignupInput) Errors { return check(in) }

// Login validates the login form.
func Login(in LoginInput) Errors { return check(in) }

// Booking validates the booking draft form.
func Booking(in BookingInput) Errors { return check(in) }

func check(in any) Errors {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{{Field: "", Message: err.Error()}}
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: jsonField(fe), Message: message(fe)})
	}
	return out
}

// jsonField lower-cases the first rune of the struct field so errors
// name the wire field the client sent.
func jsonField(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "eqfield":
		return "must match " + jsonFieldName(fe.Param())
	case "eq":
		return "must be accepted"
	case "gt":
		return "must be greater than " + fe.Param()
	case "datetime":
		return "must use the format " + fe.Param()
	default:
		return "is invalid"
	}
}

func jsonFieldName(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}
