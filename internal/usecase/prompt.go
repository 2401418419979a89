package usecase

import (
	"fmt"
	"strings"
)

// textPromptTemplate is the instruction template for free-text analyses. The
// model is told twice to avoid markdown; Normalize cleans up when it ignores
// that anyway.
const textPromptTemplate = `ROLE: You are a Senior Food Safety & Public Health Analyst specializing in FSSAI (India), EU, and US FDA standards.

TASK: Analyze the product ingredients below and provide a clear, readable health assessment in plain text.

CONSTRAINTS:
1. OUTPUT FORMAT: Plain text only.
2. FORBIDDEN CHARACTERS: Do NOT use Markdown, asterisks (**), hashtags (#), or backticks.
3. STYLE: Professional, direct, and easy to read. Use newlines to separate sections.

STRUCTURE YOUR RESPONSE AS FOLLOWS:

OVERALL VERDICT
(e.g. Healthy, Safe, Consume with Caution, or Avoid)

SUMMARY
(A concise paragraph explaining the health profile and any misleading marketing)

KEY RISKS
(List specific ingredients and why they are harmful, clearly, without bullet points)

POSITIVE HIGHLIGHTS
(Any good nutritional aspects, if any)

RECOMMENDATION
(Who should consume this and how often)

MARKETING TRAPS
(Any misleading claims, e.g. a "natural juice" that is mostly water and sugar)

DATA TO ANALYZE:
Product: %s
Ingredients: %s

RESPONSE:
`

// structuredPromptTemplate asks for a single JSON object and pre-seeds the
// opening brace. Models frequently continue the seeded prefix instead of
// emitting their own brace; the recovery pipeline compensates either way.
const structuredPromptTemplate = `ROLE: You are a Senior Food Safety & Public Health Analyst specializing in FSSAI (India), EU, and US FDA standards.

TASK: Analyze the product ingredients below and respond with EXACTLY ONE valid JSON object, nothing else. No markdown, no code fences, no commentary.

The JSON object must use these keys:
overall_verdict (string), summary (string),
health_risks (array of {ingredient, risk, health_impact, regulatory_status}),
positive_highlights (array of strings), hidden_sugars (array of strings),
harmful_additives (array of strings),
marketing_traps (array of {claim, reality}),
population_warnings ({children, pregnant_women, diabetics, allergy_risk}),
alerts (object mapping alert name to {detected, explanation}),
consumption_advice (string), recommendation (string).

Use empty arrays and empty strings when nothing applies.

DATA TO ANALYZE:
Product: %s
Ingredients: %s

RESPONSE:
{`

// BuildTextPrompt renders the free-text analysis prompt. An absent product
// name renders as an empty field rather than a template artifact.
func BuildTextPrompt(ingredientsText, productName string) string {
	return fmt.Sprintf(textPromptTemplate, strings.TrimSpace(productName), strings.TrimSpace(ingredientsText))
}

// BuildStructuredPrompt renders the structured analysis prompt.
func BuildStructuredPrompt(ingredientsText, productName string) string {
	return fmt.Sprintf(structuredPromptTemplate, strings.TrimSpace(productName), strings.TrimSpace(ingredientsText))
}
