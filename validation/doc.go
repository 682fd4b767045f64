// Package validation provides input validation for reqkit builders and configs.
//
// Programmatic validation collects field errors and reports them as a single
// errors.ErrCodeValidation error:
//
//	err := validation.New().
//	    Pattern("url", rawURL, `^(http|https)://`).
//	    OneOf("method", method, []string{"GET", "POST"}).
//	    Validate()
//
// Struct tag validation uses go-playground/validator:
//
//	type Config struct {
//	    Transport string `validate:"omitempty,oneof=nethttp resty"`
//	}
//	err := validation.Validate(cfg)
package validation
