package config

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/saherflow/saher/internal/errors"
)

// newValidator builds a validator that reports fields by their YAML names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but saher only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade saher to the latest release.")
	}

	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.WrapWithCode(err, errors.ErrConfig, "Config validation failed", "Check your .saher.yaml.")
	}

	fe := verrs[0]
	field := yamlPath(fe.Namespace())
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("'%s' has an invalid value (%v)", field, fe.Value()),
		suggestionFor(field, fe))
}

// yamlPath trims the root struct name from a validator namespace,
// turning "Config.api.base_url" into "api.base_url".
func yamlPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func suggestionFor(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Set '%s' in .saher.yaml or the matching SAHER_ environment variable.", field)
	case "url":
		return "Use a full URL, like https://scada.example.com/api"
	case "oneof":
		return fmt.Sprintf("Pick one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return "Use a positive duration, like 10s or 1m."
	case "gte", "lte":
		return "Gauge values are percentages between 0 and 100."
	case "hostname_port":
		return "Use host:port, like 127.0.0.1:9090"
	default:
		return "Check your .saher.yaml."
	}
}
