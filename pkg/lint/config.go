package lint

// Config controls which rules are enabled, their severity and options.
type Config struct {
	// DisabledRules contains rule names to skip
	DisabledRules map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]Severity

	// RuleOptions holds per-rule option maps, keyed by rule name
	RuleOptions map[string]map[string]any
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]Severity),
		RuleOptions:       make(map[string]map[string]any),
	}
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(rule string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[rule]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(rule string, defaultSeverity Severity) Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[rule]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// GetRuleOptions returns the configured options of a rule, or nil.
func (c *Config) GetRuleOptions(rule string) map[string]any {
	if c == nil {
		return nil
	}
	return c.RuleOptions[rule]
}

// Disable disables a rule by name.
func (c *Config) Disable(rule string) *Config {
	c.DisabledRules[rule] = true
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(rule string, severity Severity) *Config {
	c.SeverityOverrides[rule] = severity
	return c
}

// SetRuleOptions replaces the options of a rule.
func (c *Config) SetRuleOptions(rule string, opts map[string]any) *Config {
	c.RuleOptions[rule] = opts
	return c
}
