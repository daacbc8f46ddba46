// Package config defines the server configuration structure.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// Report fields by their koanf key.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := validatorInstance().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fieldError(verrs[0])
		}
		return err
	}
	return verifyDirs(cfg)
}

// fieldError renders a validation failure as "section.key: reason".
func fieldError(fe validator.FieldError) error {
	key := fe.Namespace()
	// Drop the root struct name.
	if i := strings.IndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", key)
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %q", key, fe.Param(), fe.Value())
	case "file":
		return fmt.Errorf("%s: file %q does not exist", key, fe.Value())
	case "gt":
		return fmt.Errorf("%s must be greater than %s", key, fe.Param())
	case "gte":
		return fmt.Errorf("%s must not be negative", key)
	default:
		return fmt.Errorf("%s failed %s validation", key, fe.Tag())
	}
}

func verifyDirs(cfg *ServerConfig) error {
	// Check the settings directory exists or can be created
	if err := os.MkdirAll(filepath.Dir(cfg.Settings.Path), 0o750); err != nil {
		return errors.New("cannot create settings directory: " + err.Error())
	}
	return nil
}
