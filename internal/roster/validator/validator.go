package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"scoutnet/internal/roster/fields"
	apperrors "scoutnet/pkg/errors"
	"scoutnet/pkg/locale"
	"scoutnet/pkg/sanitizer"
)

const tagCanonicalPhone = "canonical_phone"

var reCanonicalPhone = regexp.MustCompile(`^\+\d{11,}$`)

// RecordValidator turns unwrapped field values into validated records. It
// holds no mutable state and is safe for concurrent use.
type RecordValidator struct {
	validate    *validator.Validate
	phoneRegion string
}

func NewRecordValidator(phoneRegion string) (*RecordValidator, error) {
	if phoneRegion == "" {
		phoneRegion = locale.DefaultRegion
	}
	if _, ok := locale.Lookup(phoneRegion); !ok {
		return nil, fmt.Errorf("unsupported phone region %q", phoneRegion)
	}

	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation(tagCanonicalPhone, validateCanonicalPhone); err != nil {
		return nil, fmt.Errorf("failed to register %q validator: %w", tagCanonicalPhone, err)
	}

	return &RecordValidator{
		validate:    v,
		phoneRegion: phoneRegion,
	}, nil
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

func validateCanonicalPhone(fl validator.FieldLevel) bool {
	return reCanonicalPhone.MatchString(fl.Field().String())
}

// check runs struct-tag validation and reports the first offending field.
func (v *RecordValidator) check(record any) error {
	err := v.validate.Struct(record)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		return translate(validationErrs[0])
	}
	return apperrors.Internal("record validation failed", err)
}

func translate(fe validator.FieldError) error {
	field := fe.Field()
	var message string
	switch fe.Tag() {
	case "email":
		message = fmt.Sprintf("%q is not a valid email address", fe.Value())
	case "gt":
		message = fmt.Sprintf("must be greater than %s", fe.Param())
	case tagCanonicalPhone:
		message = fmt.Sprintf("%q is not an E.164 phone number", fe.Value())
	default:
		message = fmt.Sprintf("failed %q validation", fe.Tag())
	}
	return apperrors.FieldValidation(field, message, fe)
}

func optionalEmail(values fields.Values, name string) (*string, error) {
	s, err := values.OptionalString(name)
	if err != nil || s == nil {
		return nil, err
	}
	email := sanitizer.NormalizeEmail(*s)
	if email == "" {
		return nil, nil
	}
	return &email, nil
}
