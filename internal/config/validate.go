package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Analysis.FenceWorkers <= 0 {
		return fmt.Errorf("analysis.fence_workers must be > 0 (got %d)", c.Analysis.FenceWorkers)
	}
	if c.Analysis.MaxDocumentBytes <= 0 {
		return fmt.Errorf("analysis.max_document_bytes must be > 0 (got %d)", c.Analysis.MaxDocumentBytes)
	}
	if c.Analysis.CacheSize <= 0 {
		return fmt.Errorf("analysis.cache_size must be > 0 (got %d)", c.Analysis.CacheSize)
	}
	if c.Dictionary.MaxWordsPerScope <= 0 {
		return fmt.Errorf("dictionary.max_words_per_scope must be > 0 (got %d)", c.Dictionary.MaxWordsPerScope)
	}
	if c.Outbox.PollInterval <= 0 {
		return fmt.Errorf("outbox.poll_interval must be > 0 (got %v)", c.Outbox.PollInterval)
	}
	if c.Outbox.BatchSize <= 0 {
		return fmt.Errorf("outbox.batch_size must be > 0 (got %d)", c.Outbox.BatchSize)
	}
	if c.Consumer.Stream == "" || c.Consumer.Group == "" {
		return fmt.Errorf("consumer.stream and consumer.group are required")
	}
	return nil
}
