package validator

import "github.com/go-playground/validator/v10"

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewSchedulingValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("date", dateValidator),
		},
		{
			Rule: registerFn("inspection_type", inspectionTypeValidator),
		},
		{
			Rule: registerFn("person_id", uuidValidator),
		},
	}
}

func NewStatusValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("inspection_status", inspectionStatusValidator),
		},
	}
}
