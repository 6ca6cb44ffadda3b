package actions

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SignInForm is the sign-in form.
type SignInForm struct {
	Email    string `form:"email" json:"email" validate:"required,email,min=3,max=255"`
	Password string `form:"password" json:"password" validate:"required,min=8,max=100"`
	Redirect string `form:"redirect" json:"redirect"`
	PriceID  string `form:"priceId" json:"priceId"`
}

// SignUpForm is the sign-up form.
type SignUpForm struct {
	Email    string `form:"email" json:"email" validate:"required,email,max=255"`
	Password string `form:"password" json:"password" validate:"required,min=8,max=100"`
	Redirect string `form:"redirect" json:"redirect"`
	PriceID  string `form:"priceId" json:"priceId"`
}

// UpdatePasswordForm changes the signed-in user's password.
type UpdatePasswordForm struct {
	NewPassword     string `form:"newPassword" json:"newPassword" validate:"required,min=8,max=100"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword" validate:"required,min=8,max=100,eqfield=NewPassword"`
}

// ResetPasswordForm requests a password reset email.
type ResetPasswordForm struct {
	Email string `form:"email" json:"email" validate:"required,email,max=255"`
}

// ConfirmResetForm sets a new password from a reset link.
type ConfirmResetForm struct {
	Token           string `form:"token" json:"token" validate:"required"`
	NewPassword     string `form:"newPassword" json:"newPassword" validate:"required,min=8,max=100"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword" validate:"required,min=8,max=100,eqfield=NewPassword"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their form names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// fieldErrors converts validator output into per-field messages.
func fieldErrors(err error) map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": "Invalid input."}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "eqfield":
		return fieldMismatch
	}
	return "Invalid value."
}

const fieldMismatch = "Passwords do not match."
