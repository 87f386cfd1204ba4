package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with readable messages.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, fmt.Sprintf(
			"field '%s' failed validation: %s (value: '%v')",
			e.Namespace(), e.Tag(), e.Value(),
		))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
