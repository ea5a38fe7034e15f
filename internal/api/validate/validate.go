// Package validate holds the small input checks the API handlers share.
package validate

import (
	"fmt"
	"strings"
)

// NonEmpty rejects empty or whitespace-only values.
func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// MaxLen bounds optional string fields.
func MaxLen(field string, v *string, limit int) error {
	if v == nil {
		return nil
	}
	if len(*v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}
