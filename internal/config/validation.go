package config

import "fmt"

// Validate checks the configuration for values that would break at
// runtime. Missing chat credentials are deliberately not an error here;
// they only degrade the chat endpoint (see ChatConfigured).
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeMock, ModeBackend, ModeFunction:
	default:
		return fmt.Errorf("%w: %q (want mock, backend or function)", ErrInvalidMode, c.Mode)
	}

	if c.Mode == ModeBackend && c.BackendURL == "" {
		return ErrMissingBackendURL
	}
	if c.Mode == ModeFunction && c.FunctionURL == "" {
		return ErrMissingFunctionURL
	}

	if c.MatchThreshold < 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("%w: %v (want 0..1)", ErrInvalidMatchThreshold, c.MatchThreshold)
	}
	if c.MatchCount < 1 || c.MatchCount > 10 {
		return fmt.Errorf("%w: %d (want 1..10)", ErrInvalidMatchCount, c.MatchCount)
	}

	return nil
}

// ValidateChat checks that the RAG pipeline can run. Used by commands
// that require a working pipeline (ingest), where degrading makes no sense.
func (c *Config) ValidateChat() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.GeminiAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
