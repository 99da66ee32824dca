package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/propinspect/inspection-planner/internal/store/model"
	funk "github.com/thoas/go-funk"
)

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// stringValue reads a string or *string field. A nil pointer is reported as
// absent.
func stringValue(fl validator.FieldLevel) (string, bool, bool) {
	switch val := fl.Field().Interface().(type) {
	case string:
		return val, true, true
	case *string:
		if val == nil {
			return "", false, true
		}
		return *val, true, true
	default:
		return "", false, false
	}
}

func dateValidator(fl validator.FieldLevel) bool {
	val, present, ok := stringValue(fl)
	if !ok {
		return false
	}
	if !present {
		return true
	}

	if !dateRegex.MatchString(val) {
		return false
	}
	_, err := model.ParseDate(val)
	return err == nil
}

func inspectionTypeValidator(fl validator.FieldLevel) bool {
	val, present, ok := stringValue(fl)
	if !ok {
		return false
	}
	return !present || funk.ContainsString(model.InspectionTypes, val)
}

func inspectionStatusValidator(fl validator.FieldLevel) bool {
	val, present, ok := stringValue(fl)
	if !ok {
		return false
	}
	return !present || funk.ContainsString(model.InspectionStatuses, val)
}

func uuidValidator(fl validator.FieldLevel) bool {
	val, present, ok := stringValue(fl)
	if !ok {
		return false
	}
	if !present {
		return true
	}
	id, err := uuid.Parse(val)
	return err == nil && id != uuid.Nil
}
