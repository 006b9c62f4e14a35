package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// customerFilter selects customers by id and by unit.
type customerFilter struct {
	Customers []string `form:"customer" validate:"dive,required"`
	Units     []string `form:"unit"     validate:"dive,required"`
}

// selectionRequest filters both datasets without further parameters.
type selectionRequest struct {
	customerFilter

	Technicians []string `form:"technician" validate:"dive,required"`
}

type matchesRequest struct {
	customerFilter

	Technicians []string `form:"technician" validate:"dive,required"`
	SpeedKmh    *float64 `form:"speed_kmh"  validate:"omitempty,gt=0,lte=1000"`
}

type coverageRequest struct {
	customerFilter

	Technician string   `form:"technician" validate:"required"`
	RadiusKm   *float64 `form:"radius_km"  validate:"omitempty,gte=0,lte=100000"`
}

type envelope map[string]any

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestValidator validates bound query DTOs and renders English messages
// named after the query parameters.
type requestValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newRequestValidator() *requestValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	return &requestValidator{validate: validate, trans: trans}
}

func (rv *requestValidator) check(req any) error {
	err := rv.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fe.Translate(rv.trans))
	}

	return fmt.Errorf("%w: validation error: %v", errInvalidRequest, messages)
}
