package validators

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/micronstore/storefront/pkg/errors"
)

// MsgInvalidForm is what shoppers see when a posted form does not validate.
const MsgInvalidForm = "Invalid form"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// CartAddForm is posted by the add-to-cart and quantity update controls.
type CartAddForm struct {
	Quantity int  `form:"quantity" validate:"min=1,max=20"`
	Override bool `form:"override"`
}

// CouponApplyForm is posted by the coupon box on the cart page.
type CouponApplyForm struct {
	Code string `form:"code" validate:"required,max=50"`
}

// DecodeForm fills dest, a pointer to a struct with `form` tags, from the
// urlencoded or multipart body and validates it.
func DecodeForm(r *http.Request, dest any) error {
	if err := r.ParseForm(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, MsgInvalidForm)
	}

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return pkgerrors.New(pkgerrors.CodeInternal, "form destination must be a struct pointer")
	}
	rv = rv.Elem()
	rt := rv.Type()

	details := map[string]string{}
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		raw := strings.TrimSpace(r.PostForm.Get(name))
		if raw == "" {
			raw = strings.TrimSpace(r.Form.Get(name))
		}
		if err := setField(rv.Field(i), raw); err != nil {
			details[name] = err.Error()
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, MsgInvalidForm).WithDetails(details)
	}

	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func setField(v reflect.Value, raw string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int64, reflect.Int32:
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("must be a whole number")
		}
		v.SetInt(n)
	case reflect.Bool:
		v.SetBool(parseBool(raw))
	default:
		return fmt.Errorf("unsupported field type %s", v.Kind())
	}
	return nil
}

// parseBool follows HTML checkbox conventions: anything but an explicit
// false value is true, and a missing value is false.
func parseBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "", "0", "false", "off", "no":
		return false
	}
	return true
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, MsgInvalidForm).WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, MsgInvalidForm)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return "is invalid"
}
