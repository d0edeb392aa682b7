package gcp

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
)

// wrapAPIError adiciona a operação e, quando disponível, o status HTTP e o reason
// retornados pela API. O erro original continua acessível via errors.As.
func wrapAPIError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		var reasons []string
		for _, item := range apiErr.Errors {
			if item.Reason != "" {
				reasons = append(reasons, item.Reason)
			}
		}
		if len(reasons) > 0 {
			return fmt.Errorf("%s (HTTP %d, %s): %w", msg, apiErr.Code, strings.Join(reasons, ", "), err)
		}
		return fmt.Errorf("%s (HTTP %d): %w", msg, apiErr.Code, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
