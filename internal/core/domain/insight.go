package domain

// DefaultInsightQuery is used when the caller asks for insights without a query.
const DefaultInsightQuery = "Provide a summary of current supply chain metrics and recommendations"

// ContextAnalysis flags the business topics present in retrieved context.
type ContextAnalysis struct {
	HasInventory  bool `json:"has_inventory"`
	HasSales      bool `json:"has_sales"`
	HasOperations bool `json:"has_operations"`
	HasFinance    bool `json:"has_finance"`
	HasStrategy   bool `json:"has_strategy"`

	// DocumentCount is the number of context chunks analysed.
	DocumentCount int `json:"document_count"`
}

// KeyInsightType distinguishes metric insights from business-area insights.
type KeyInsightType string

// Key insight types.
const (
	KeyInsightMetric KeyInsightType = "metric"
	KeyInsightAreas  KeyInsightType = "areas"
)

// KeyInsight is one headline finding extracted from context.
type KeyInsight struct {
	Type KeyInsightType `json:"type"`

	// Value holds the metric text for metric insights (e.g. "42.5%").
	Value string `json:"value,omitempty"`

	// Areas holds the business areas for area insights.
	Areas []string `json:"areas,omitempty"`

	Context string `json:"context"`
}

// Recommendation is an actionable item in the insight report.
type Recommendation struct {
	Title          string `json:"title"`
	Impact         string `json:"impact"`
	Effort         string `json:"effort"`
	Timeline       string `json:"timeline"`
	Description    string `json:"description"`
	ExpectedResult string `json:"expected_result,omitempty"`
}

// SalesSuggestion is a short sales or marketing action.
type SalesSuggestion struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Effort      string `json:"effort"`
}

// Insight is the response of the insight pipeline.
type Insight struct {
	Query string `json:"query"`

	// Response is the markdown report.
	Response string `json:"response"`

	// Sources are the retrieved chunks the report is based on.
	// Empty when Fallback is set.
	Sources []string `json:"sources"`

	SalesSuggestions []SalesSuggestion `json:"sales_suggestions"`

	// Fallback is set when the report is generic rather than personalised,
	// because no context was found or retrieval failed.
	Fallback bool `json:"fallback"`

	// Generated is set when the report body came from a language model.
	Generated bool `json:"generated"`
}
