package genai

// Wire types for the generateContent REST endpoint. Only the fields this desk
// uses are modeled; the upstream schema is openly extensible.

// GenerateRequest is the request body for a generateContent call.
type GenerateRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	Tools             []Tool            `json:"tools,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content is a role-tagged sequence of parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a single text fragment of a Content.
type Part struct {
	Text string `json:"text,omitempty"`
}

// Tool enables a model capability. GoogleSearch turns the call into a
// search-augmented generation request.
type Tool struct {
	GoogleSearch *GoogleSearch `json:"google_search,omitempty"`
}

// GoogleSearch has no parameters; its presence enables search grounding.
type GoogleSearch struct{}

// GenerationConfig shapes the model output.
type GenerationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema         `json:"responseSchema,omitempty"`
	ThinkingConfig   *ThinkingConfig `json:"thinkingConfig,omitempty"`
}

// Schema constrains the JSON shape of a structured response. Only the subset
// of the OpenAPI-style schema language this desk sends is modeled. The schema
// is a generation hint; callers still validate what actually comes back.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
	Enum       []string           `json:"enum,omitempty"`
}

// ThinkingConfig bounds the model's internal reasoning budget.
type ThinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

// GenerateResponse is the subset of the response body this desk reads.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// Text concatenates the text parts of the first candidate. Returns "" when
// the response carries no candidates.
func (r *GenerateResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, p := range r.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}

// NewTextRequest builds a single-turn user request around prompt.
func NewTextRequest(prompt string) GenerateRequest {
	return GenerateRequest{
		Contents: []Content{{
			Role:  "user",
			Parts: []Part{{Text: prompt}},
		}},
	}
}
