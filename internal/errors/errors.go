package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// AuthError represents a credential or session failure. It is always fatal
// to the current operation and never retried.
type AuthError struct {
	Method     string
	Message    string
	Suggestion string
	Err        error
}

func (e AuthError) Error() string {
	msg := "Authentication failed"
	if e.Method != "" {
		msg += fmt.Sprintf(" (%s)", e.Method)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += "\n  Details: " + e.Err.Error()
	}
	if e.Suggestion != "" {
		msg += "\n  💡 Try: " + e.Suggestion
	}
	return msg
}

func (e AuthError) Unwrap() error {
	return e.Err
}

var (
	// ErrParameterNotFound is returned when the store reports that a named
	// parameter does not exist. Callers use it to mean absence, not failure.
	ErrParameterNotFound = errors.New("parameter not found")

	// ErrParameterExists is returned when a write without overwrite was
	// rejected because the target parameter already exists.
	ErrParameterExists = errors.New("parameter already exists")
)

// IsNotFound reports whether err means the parameter does not exist.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrParameterNotFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ParameterNotFound"
	}
	return false
}

// IsAlreadyExists reports whether err means a write was rejected because
// the parameter exists and overwrite was not requested.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrParameterExists) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ParameterAlreadyExists"
	}
	return false
}

// IsThrottling reports whether err is a throttling-class failure worth a
// bounded retry. Everything else surfaces immediately.
func IsThrottling(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "TooManyRequestsException", "TooManyUpdates":
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "throttl")
}

// SSMErrorSuggestion provides helpful suggestions based on Parameter Store errors
func SSMErrorSuggestion(err error) string {
	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "accessdenied"):
		return "Check IAM permissions: ssm:GetParameter, ssm:PutParameter, ssm:DescribeParameters, and kms:Decrypt (for SecureString)"
	case strings.Contains(errStr, "parameternotfound"):
		return "Verify the parameter name and path. SSM parameters are case-sensitive"
	case strings.Contains(errStr, "parameteralreadyexists"):
		return "The parameter exists. Re-run with --overwrite to replace it"
	case strings.Contains(errStr, "invalidkeyid"):
		return "The KMS key for this SecureString parameter may not exist or you lack kms:Decrypt permission"
	case strings.Contains(errStr, "throttl"):
		return "Request was throttled. Wait a moment and try again"
	case strings.Contains(errStr, "region"):
		return "Check that you're using the correct AWS region where the parameter is stored"
	default:
		return "Check AWS credentials, region, and IAM permissions for SSM Parameter Store"
	}
}
