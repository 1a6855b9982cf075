package quotes

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// phonePattern is the national mobile format: 05X prefix, optional dash,
// seven more digits.
var phonePattern = regexp.MustCompile(`^05\d-?\d{7}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	if err := v.RegisterValidation("ilphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidatePersonalInfo checks the first step's schema. A nil result means
// the step passed.
func ValidatePersonalInfo(info PersonalInfo) map[string]string {
	return fieldErrors(validate.Struct(info))
}

// ValidateProjectDetails checks the second step's schema.
func ValidateProjectDetails(details ProjectDetails) map[string]string {
	return fieldErrors(validate.Struct(details))
}

// ValidateBudgetInfo checks the third step's schema.
func ValidateBudgetInfo(info BudgetInfo) map[string]string {
	return fieldErrors(validate.Struct(info))
}

// ValidateSubmission re-checks the combined payload. The server never
// trusts the wizard's client-side passes.
func ValidateSubmission(sub Submission) map[string]string {
	return fieldErrors(validate.Struct(sub))
}

// fieldErrors maps validator failures to per-field Hebrew messages for the
// site's visitors.
func fieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": "ערך לא תקין"}
	}
	details := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		details[fieldErr.Field()] = fieldMessage(fieldErr)
	}
	return details
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "שדה חובה"
	case "min":
		return fmt.Sprintf("נדרשים לפחות %s תווים", fe.Param())
	case "max":
		return fmt.Sprintf("מותר לכל היותר %s תווים", fe.Param())
	case "email":
		return "כתובת אימייל לא תקינה"
	case "ilphone":
		return "מספר טלפון לא תקין"
	case "oneof":
		return "ערך לא חוקי"
	case "gt":
		return "חייב להיות מספר חיובי"
	}
	return "ערך לא תקין"
}
