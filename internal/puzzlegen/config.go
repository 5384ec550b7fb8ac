package puzzlegen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators is the ordered list of validators to run on every
	// generated puzzle. They execute in order; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorDescriptions is the maximum number of prior descriptions
	// to include in the prompt for deduplication.
	MaxPriorDescriptions int

	// MaxAttempts bounds regeneration after a retryable validation failure.
	MaxAttempts int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			NewStructuralValidator(),
			&GradableValidator{},
			&SkeletonValidator{},
		},
		MaxTokens:            2048,
		Temperature:          0.7,
		MaxPriorDescriptions: 8,
		MaxAttempts:          3,
	}
}
