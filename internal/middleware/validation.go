package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// MissingFields returns the JSON names of the fields of obj failing a
// "required" rule, in declaration order.
func MissingFields(obj interface{}) ([]string, error) {
	err := validate.Struct(obj)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	missing := make([]string, 0, len(verrs))
	for _, e := range verrs {
		if e.Tag() != "required" {
			return nil, fmt.Errorf("%s", formatValidationError(e))
		}
		missing = append(missing, e.Field())
	}
	return missing, nil
}

// BindLooseJSON decodes a JSON object body into obj, whose fields must all be
// strings. Numbers and booleans are stringified; null, false and zero become
// the empty string so that they count as missing.
func BindLooseJSON(c *gin.Context, obj interface{}) error {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("request body must be a JSON object: %w", err)
	}

	normalised := make(map[string]string, len(raw))
	for k, v := range raw {
		normalised[k] = looseString(v)
	}

	encoded, err := json.Marshal(normalised)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, obj)
}

func looseString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return ""
	case json.Number:
		if f, err := val.Float64(); err == nil && f == 0 {
			return ""
		}
		return val.String()
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
