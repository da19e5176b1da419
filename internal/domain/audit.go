package domain

import "time"

// AuditStatus is the oracle's overall verdict on a portfolio.
type AuditStatus string

const (
	AuditPass     AuditStatus = "PASS"
	AuditWarning  AuditStatus = "WARNING"
	AuditCritical AuditStatus = "CRITICAL"
)

// Valid reports whether s is one of the three enumerated verdicts.
func (s AuditStatus) Valid() bool {
	return s == AuditPass || s == AuditWarning || s == AuditCritical
}

// RiskLevel grades a single selection inside an audit.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Valid reports whether l is a known risk level.
func (l RiskLevel) Valid() bool {
	return l == RiskLow || l == RiskMedium || l == RiskHigh
}

// Optimization is an optional hedge or pivot the oracle suggests for a risky
// selection.
type Optimization struct {
	Available         bool   `json:"available"`
	Type              string `json:"type,omitempty"` // SAFETY_NET or PIVOT
	SuggestedPickName string `json:"suggested_pick_name,omitempty"`
	SuggestedReason   string `json:"suggested_reason,omitempty"`
}

// AuditDetail is the oracle's per-selection assessment.
type AuditDetail struct {
	SelectionID  string        `json:"selection_id"`
	RiskLevel    RiskLevel     `json:"risk_level"`
	UIColor      string        `json:"ui_color,omitempty"`
	RiskTag      string        `json:"risk_tag,omitempty"`
	Analysis     string        `json:"analysis"`
	Optimization *Optimization `json:"optimization,omitempty"`
}

// AuditSummary is the portfolio-level verdict.
type AuditSummary struct {
	Status         AuditStatus `json:"status"`
	TotalRiskScore float64     `json:"total_risk_score"` // 0-100
	SummaryText    string      `json:"summary_text"`
}

// AuditResult is the validated response of the risk-assessment oracle. It is
// only ever replaced wholesale, never merged with a prior result.
type AuditResult struct {
	RequestID string        `json:"request_id"`
	Summary   AuditSummary  `json:"portfolio_summary"`
	Details   []AuditDetail `json:"audit_details"`
	CreatedAt time.Time     `json:"created_at"`

	// PortfolioVersion is the portfolio mutation counter the audit was
	// computed from. A result whose version trails the live portfolio is
	// stale and must not be presented as current.
	PortfolioVersion uint64 `json:"portfolio_version"`

	// Stale is set when the portfolio mutated while the audit was in flight.
	Stale bool `json:"stale"`
}
