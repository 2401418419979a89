package domain

// Response formats a caller may request for an analysis.
const (
	FormatText       = "text"
	FormatStructured = "structured"
)

// AnalysisRequest describes one ingredient analysis call. IngredientsText is
// required; ProductName is optional context for the model. Constructed once
// per call and never mutated.
type AnalysisRequest struct {
	IngredientsText string `json:"ingredients_text" binding:"required"`
	ProductName     string `json:"product_name,omitempty"`
	ResponseFormat  string `json:"response_format,omitempty"`
}

// HealthRisk is one flagged ingredient in a structured analysis.
type HealthRisk struct {
	Ingredient       string `json:"ingredient"`
	Risk             string `json:"risk"`
	HealthImpact     string `json:"health_impact"`
	RegulatoryStatus string `json:"regulatory_status"`
}

// MarketingTrap pairs a label claim with what the ingredient list shows.
type MarketingTrap struct {
	Claim   string `json:"claim"`
	Reality string `json:"reality"`
}

// AlertDetail is the value of a named alert in a structured analysis.
type AlertDetail struct {
	Detected    bool   `json:"detected"`
	Explanation string `json:"explanation"`
}

// PopulationWarnings holds guidance for sensitive consumer groups.
type PopulationWarnings struct {
	Children      string `json:"children"`
	PregnantWomen string `json:"pregnant_women"`
	Diabetics     string `json:"diabetics"`
	AllergyRisk   string `json:"allergy_risk"`
}

// StructuredAnalysis is the machine-parseable analysis record. Every list and
// map defaults to empty: the absence of a risk is not an error. Recommendation
// stays the last field so a serialized record never ends in a double closing
// brace, which the recovery pipeline treats as a duplicated-wrapper artifact.
type StructuredAnalysis struct {
	ProductName        string                 `json:"product_name,omitempty"`
	OverallVerdict     string                 `json:"overall_verdict"`
	Summary            string                 `json:"summary"`
	HealthRisks        []HealthRisk           `json:"health_risks,omitempty"`
	PositiveHighlights []string               `json:"positive_highlights,omitempty"`
	HiddenSugars       []string               `json:"hidden_sugars,omitempty"`
	HarmfulAdditives   []string               `json:"harmful_additives,omitempty"`
	MarketingTraps     []MarketingTrap        `json:"marketing_traps,omitempty"`
	PopulationWarnings PopulationWarnings     `json:"population_warnings"`
	Alerts             map[string]AlertDetail `json:"alerts,omitempty"`
	ConsumptionAdvice  string                 `json:"consumption_advice"`
	Recommendation     string                 `json:"recommendation"`
}

// AnalysisOutcome is the tagged result of an analysis. Exactly one of Text or
// Structured is populated, selected by Mode; the two shapes are never mixed.
// Placeholder marks results produced without a model call (missing upstream
// credentials).
type AnalysisOutcome struct {
	Mode        string              `json:"mode"`
	Text        string              `json:"text,omitempty"`
	Structured  *StructuredAnalysis `json:"structured,omitempty"`
	Placeholder bool                `json:"placeholder,omitempty"`
}

// AnalyzeResponse is the payload returned by the analysis endpoints.
type AnalyzeResponse struct {
	ProductName string          `json:"product_name,omitempty"`
	Analysis    AnalysisOutcome `json:"analysis"`
}
