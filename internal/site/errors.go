package site

import (
	"errors"
	"fmt"
)

var ErrSiteNotFound = errors.New("site not found")

// ConfigurationError reports a catalog entry that cannot be monitored
type ConfigurationError struct {
	Site string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid site configuration %q: %v", e.Site, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func NewConfigurationError(site string, err error) *ConfigurationError {
	return &ConfigurationError{
		Site: site,
		Err:  err,
	}
}
