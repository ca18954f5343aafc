package store

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
)

func newValidator() *validator.Validate {
	v := validator.New()
	// mensagens com o nome do campo como no JSON (start_date, company_id...)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return models.Status(fl.Field().String()).Valid()
	})
	return v
}

func (s *Store) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	problems := make([]string, 0, len(ve))
	for _, fe := range ve {
		switch fe.Tag() {
		case "required":
			problems = append(problems, fe.Field()+" is required")
		case "status":
			problems = append(problems, fmt.Sprintf("%s: unknown status %v", fe.Field(), fe.Value()))
		case "datetime":
			problems = append(problems, fe.Field()+" must be a YYYY-MM-DD date")
		case "gte":
			problems = append(problems, fe.Field()+" must be >= "+fe.Param())
		case "email":
			problems = append(problems, fe.Field()+" must be a valid email address")
		default:
			problems = append(problems, fe.Field()+" is invalid")
		}
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func blank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) == ""
}
