package config

// applyOperationDefaults fills unset operation fields from the global AI settings
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
}

// GetReviewConfig returns the AI configuration for resume reviews
func (c *Config) GetReviewConfig() OperationAIConfig {
	cfg := c.AI.Review
	c.applyOperationDefaults(&cfg)
	return cfg
}

// GetKeywordsConfig returns the AI configuration for job keyword matching
func (c *Config) GetKeywordsConfig() OperationAIConfig {
	cfg := c.AI.Keywords
	c.applyOperationDefaults(&cfg)
	return cfg
}
