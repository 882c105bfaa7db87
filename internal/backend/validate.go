package backend

import "github.com/go-playground/validator/v10"

// validate reads the same `binding` tags gin uses on the server, so both
// clients reject the same payloads.
var validate = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()
