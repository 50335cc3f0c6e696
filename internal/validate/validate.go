package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/storedesk/storesapi/internal/apperror"
)

// Validator plugs go-playground/validator into echo's c.Validate. Violations
// come back as a 422 apperror with one detail entry per failed field, keyed
// by the field's json name.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}

	detail := map[string]any{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Param() != "" {
				detail[fe.Field()] = fmt.Sprintf("failed %q validation (param %s)", fe.Tag(), fe.Param())
			} else {
				detail[fe.Field()] = fmt.Sprintf("failed %q validation", fe.Tag())
			}
		}
	}
	return apperror.Validation("request validation failed", detail)
}
