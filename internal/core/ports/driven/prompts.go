package driven

// PromptStore provides access to language model prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error; known names fall back to a built-in default.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptInsightReport asks the generator for a business insight report.
	// The template expects two %s placeholders: the query, then the document excerpts.
	PromptInsightReport = "insight_report"
)
