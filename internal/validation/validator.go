// Package validation validates desired-state parameters before any network
// call is made.
//
// It wraps go-playground/validator for tag-based struct validation and adds
// the interface address rule that tags cannot express: a host interface may
// specify a DNS name or an IP address, never both, and needs at least one.
//
// # Usage Example
//
//	v := validation.New()
//	result := v.ValidateHost(&params)
//	if !result.Valid {
//	    return result.Err()
//	}
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"evalgo.org/zabbixctl/models"
)

// Validator validates desired-state parameter structs.
type Validator struct {
	structValidator *validator.Validate
}

// ValidationError represents a single validation error with field-level
// details.
type ValidationError struct {
	// Field is the name of the field that failed validation
	Field string `json:"field"`

	// Message describes why the validation failed
	Message string `json:"message"`
}

// ValidationResult represents the complete result of a validation operation.
type ValidationResult struct {
	// Valid is true if validation passed, false otherwise
	Valid bool `json:"valid"`

	// Errors contains all validation errors found (empty if Valid is true)
	Errors []ValidationError `json:"errors,omitempty"`
}

// Err collapses the result into a single error, or nil if validation passed.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return fmt.Errorf("invalid parameters: %s", strings.Join(parts, "; "))
}

// New creates a Validator ready to validate host, host group and template
// parameters.
func New() *Validator {
	return &Validator{
		structValidator: validator.New(),
	}
}

// ValidateHost validates host desired-state parameters, including the
// DNS/IP mutual-exclusion rule.
func (v *Validator) ValidateHost(p *models.HostParams) *ValidationResult {
	result := v.validateStruct(p)

	if p.DNS != "" && p.IP != "" {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "dns",
			Message: "dns and ip are mutually exclusive, specify only one",
		})
	}
	if p.DNS == "" && p.IP == "" {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "dns",
			Message: "either dns or ip is required",
		})
	}

	return result
}

// ValidateHostGroup validates host group desired-state parameters.
func (v *Validator) ValidateHostGroup(p *models.HostGroupParams) *ValidationResult {
	return v.validateStruct(p)
}

// ValidateTemplate validates template desired-state parameters.
func (v *Validator) ValidateTemplate(p *models.TemplateParams) *ValidationResult {
	return v.validateStruct(p)
}

func (v *Validator) validateStruct(s interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	err := v.structValidator.Struct(s)
	if err == nil {
		return result
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "parameters",
			Message: err.Error(),
		})
		return result
	}

	result.Valid = false
	for _, fieldErr := range validationErrors {
		result.Errors = append(result.Errors, ValidationError{
			Field:   strings.ToLower(fieldErr.Field()),
			Message: tagMessage(fieldErr),
		})
	}
	return result
}

func tagMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "ip":
		return "must be a valid IP address"
	case "numeric":
		return "must be numeric"
	case "min", "max":
		return fmt.Sprintf("must satisfy %s=%s", e.Tag(), e.Param())
	default:
		return fmt.Sprintf("failed %s validation", e.Tag())
	}
}
