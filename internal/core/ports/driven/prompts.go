package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptGrounded is the template for corpus-grounded answers.
	// Placeholders (in order): persona role, persona preferences,
	// persona activity, knowledge evidence, conversational history,
	// user query. All are %s.
	PromptGrounded = "grounded_answer"

	// PromptFallback is the template for persona+memory-only answers,
	// used when routing selects no corpus.
	// Placeholders (in order): persona role, persona preferences,
	// persona activity, conversational history, user query. All are %s.
	PromptFallback = "fallback_answer"

	// PromptRouteClassifier asks the model to name the best corpus for a
	// query, used by the optional LLM routing scorer.
	// Placeholders (in order): corpus names (comma separated), query.
	PromptRouteClassifier = "route_classifier"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
// Services implementing this interface can have their prompt templates customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
