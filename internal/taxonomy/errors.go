package taxonomy

import "fmt"

// ConfigError reports a malformed taxonomy document. Field names the offending
// category, location, or document section so operators can fix the document
// without reading a stack trace.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("taxonomy config: %s: %s", e.Field, e.Reason)
}
