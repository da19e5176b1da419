package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lotteryops/sentinelbet/internal/platform/genai"
)

// systemInstruction frames the oracle as a risk-control auditor and pins the
// response schema it must return.
const systemInstruction = `You are a professional sports risk-control auditor. Your core task is a strict audit of the user's betting portfolio.
Special rules:
1. Logical conflicts: picking "home win" alongside the correct score "0:1" on the same match is physically impossible.
2. Correct-score audit: exact scores are extremely high risk; check the goal-curve history. A 0:0 pick against two in-form attacks is HIGH.
3. Odds divergence: a Kelly index above 1.0 on the user's pick indicates a trap line.
4. Football vs basketball: for football weigh European-cup distraction and dressing-room news; for basketball weigh back-to-backs and star rest.

Return JSON of the shape:
{
  "portfolio_summary": { "status": "PASS" | "WARNING" | "CRITICAL", "total_risk_score": 0-100, "summary_text": "short verdict" },
  "audit_details": [
    {
      "selection_id": "match_id",
      "risk_level": "LOW" | "MEDIUM" | "HIGH",
      "ui_color": "hex",
      "risk_tag": "label",
      "analysis": "blunt comment under 50 words",
      "optimization": { "available": boolean, "type": "SAFETY_NET" | "PIVOT", "suggested_pick_name": "suggestion", "suggested_reason": "reason" }
    }
  ]
}`

// Oracle submits audit requests to the risk-assessment model. The oracle is
// stateless per call; it returns the raw response body for Validate to check.
type Oracle struct {
	gen            TextGenerator
	model          string
	thinkingBudget int
}

// TextGenerator is the slice of the genai client the oracle needs.
type TextGenerator interface {
	GenerateText(ctx context.Context, model string, req genai.GenerateRequest) (string, error)
}

// NewOracle creates an Oracle around the given generator and model.
func NewOracle(gen TextGenerator, model string, thinkingBudget int) *Oracle {
	return &Oracle{gen: gen, model: model, thinkingBudget: thinkingBudget}
}

// AuditPortfolio submits one audit request and returns the raw, unvalidated
// response payload.
func (o *Oracle) AuditPortfolio(ctx context.Context, req Request) ([]byte, error) {
	slip, err := json.Marshal(req.Portfolio)
	if err != nil {
		return nil, fmt.Errorf("audit: encode portfolio: %w", err)
	}
	env, err := json.Marshal(req.Context)
	if err != nil {
		return nil, fmt.Errorf("audit: encode context: %w", err)
	}

	prompt := fmt.Sprintf(`As a sports-lottery risk auditor, audit this portfolio. Focus on live odds drift and Kelly-index divergence.

Betting slip: %s

Environment data: %s

JSON is mandatory.`, slip, env)

	greq := genai.NewTextRequest(prompt)
	greq.SystemInstruction = &genai.Content{Parts: []genai.Part{{Text: systemInstruction}}}
	greq.GenerationConfig = &genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		ThinkingConfig:   &genai.ThinkingConfig{ThinkingBudget: o.thinkingBudget},
	}

	text, err := o.gen.GenerateText(ctx, o.model, greq)
	if err != nil {
		return nil, fmt.Errorf("audit: oracle call %s: %w", req.ID, err)
	}
	return []byte(text), nil
}
