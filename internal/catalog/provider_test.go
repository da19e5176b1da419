package catalog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lotteryops/sentinelbet/internal/domain"
)

func TestPlanForOfficialSource(t *testing.T) {
	asOf := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	plan, err := PlanForSource(domain.SourceOfficial, asOf, 6)
	if err != nil {
		t.Fatalf("PlanForSource: %v", err)
	}

	if plan.Primary.Name != "sporttery-official" {
		t.Errorf("Primary.Name = %q", plan.Primary.Name)
	}
	if plan.Fallback == nil {
		t.Fatal("official source must carry an aggregate fallback")
	}
	if plan.Fallback.Name != "aggregate-odds" {
		t.Errorf("Fallback.Name = %q", plan.Fallback.Name)
	}

	// Prompts must pin the request to the desk's date and fixture count.
	for _, p := range []ProviderConfig{plan.Primary, *plan.Fallback} {
		if !strings.Contains(p.Prompt, "2025-08-30") {
			t.Errorf("%s prompt missing the as-of date", p.Name)
		}
		if !strings.Contains(p.Prompt, "6 ") && !strings.Contains(p.Prompt, " 6 ") {
			t.Errorf("%s prompt missing the fixture count", p.Name)
		}
		if p.ContactStatus == "" {
			t.Errorf("%s has no contact status line", p.Name)
		}
	}
}

func TestPlanForInternationalSource(t *testing.T) {
	plan, err := PlanForSource(domain.SourceInternational, time.Now(), 4)
	if err != nil {
		t.Fatalf("PlanForSource: %v", err)
	}
	if plan.Primary.Name != "international-books" {
		t.Errorf("Primary.Name = %q", plan.Primary.Name)
	}
	if plan.Fallback != nil {
		t.Fatal("international source runs without a fallback")
	}
}

func TestPlanForUnknownSource(t *testing.T) {
	_, err := PlanForSource(domain.SourceKind("MOON"), time.Now(), 6)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}
