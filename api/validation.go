package api

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	ierrors "github.com/jrsteele09/vehicles-auth-client/internal/errors"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// RegisterRequest is the body of POST /register/.
// ConfirmPassword is checked locally and never sent.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
}

// Validate applies the same rules as the registration form
func (r RegisterRequest) Validate() error {
	return validateStruct(r)
}

// ContactMessageRequest is the body of POST /contact-messages/
type ContactMessageRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,max=20"`
	Message string `json:"message" validate:"required"`
}

func (r ContactMessageRequest) Validate() error {
	return validateStruct(r)
}

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func validateStruct(v any) error {
	if err := structValidator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ierrors.ErrInvalidRequest, err)
	}
	return nil
}
