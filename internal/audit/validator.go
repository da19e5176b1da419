package audit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lotteryops/sentinelbet/internal/domain"
)

// Decode types with pointers where the schema distinguishes "absent" from
// "zero". Every external oracle payload passes through here before it enters
// the typed domain model; nothing is papered over with silent defaults.

type apiAudit struct {
	Summary *apiSummary `json:"portfolio_summary"`
	Details []apiDetail `json:"audit_details"`
}

type apiSummary struct {
	Status         string   `json:"status"`
	TotalRiskScore *float64 `json:"total_risk_score"`
	SummaryText    string   `json:"summary_text"`
}

type apiDetail struct {
	SelectionID  string               `json:"selection_id"`
	RiskLevel    string               `json:"risk_level"`
	UIColor      string               `json:"ui_color"`
	RiskTag      string               `json:"risk_tag"`
	Analysis     string               `json:"analysis"`
	Optimization *domain.Optimization `json:"optimization"`
}

// Validate parses a raw oracle response and checks it against the audit
// result schema. Any violation fails the whole response with
// ErrMalformedResponse; a partial result is never returned.
func Validate(raw []byte) (*domain.AuditResult, error) {
	cleaned := stripFences(string(raw))

	var resp apiAudit
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("audit: decode response: %v: %w", err, domain.ErrMalformedResponse)
	}

	if resp.Summary == nil {
		return nil, fmt.Errorf("audit: missing portfolio_summary: %w", domain.ErrMalformedResponse)
	}
	status := domain.AuditStatus(resp.Summary.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("audit: invalid status %q: %w", resp.Summary.Status, domain.ErrMalformedResponse)
	}
	if resp.Summary.TotalRiskScore == nil {
		return nil, fmt.Errorf("audit: missing total_risk_score: %w", domain.ErrMalformedResponse)
	}
	score := *resp.Summary.TotalRiskScore
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("audit: total_risk_score %v outside [0,100]: %w", score, domain.ErrMalformedResponse)
	}

	details := make([]domain.AuditDetail, 0, len(resp.Details))
	for i, d := range resp.Details {
		level := domain.RiskLevel(d.RiskLevel)
		if !level.Valid() {
			return nil, fmt.Errorf("audit: detail %d: invalid risk_level %q: %w", i, d.RiskLevel, domain.ErrMalformedResponse)
		}
		if d.Analysis == "" {
			return nil, fmt.Errorf("audit: detail %d: missing analysis: %w", i, domain.ErrMalformedResponse)
		}
		details = append(details, domain.AuditDetail{
			SelectionID:  d.SelectionID,
			RiskLevel:    level,
			UIColor:      d.UIColor,
			RiskTag:      d.RiskTag,
			Analysis:     d.Analysis,
			Optimization: d.Optimization,
		})
	}

	return &domain.AuditResult{
		Summary: domain.AuditSummary{
			Status:         status,
			TotalRiskScore: score,
			SummaryText:    resp.Summary.SummaryText,
		},
		Details: details,
	}, nil
}

// stripFences removes markdown code fences the oracle may wrap the JSON
// payload in.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
