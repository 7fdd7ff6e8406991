// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	structOnce sync.Once
	structV    *validator.Validate
)

func structValidator() *validator.Validate {
	structOnce.Do(func() {
		structV = validator.New(validator.WithRequiredStructEnabled())
		// report JSON names so errors match what the user wrote
		structV.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return structV
}

// Struct checks a decoded document against its `validate` struct tags.
// Every failing field is reported through a single ValidationError.
func Struct(doc interface{}) error {
	err := structValidator().Struct(doc)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	v := New()
	for _, fe := range fieldErrs {
		v.AddError(fieldPath(fe), describe(fe), fe.Value())
	}
	return v.Err()
}

// fieldPath drops the Go type name that leads every namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value is required"
	case "uuid":
		return "value must be a UUID"
	case "oneof":
		return fmt.Sprintf("value must be one of [%s]", fe.Param())
	case "gt", "gte", "lt", "lte", "min", "max":
		return fmt.Sprintf("value must satisfy %s=%s", fe.Tag(), fe.Param())
	case "eq":
		return fmt.Sprintf("value must be %q", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
