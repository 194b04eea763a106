// Package validation checks request structs against go-playground/validator
// struct tags and reports failures as *errors.AppError values.
//
//	type query struct {
//	    Message string `form:"message" validate:"required"`
//	}
//	err := validation.Validate(q)
package validation
