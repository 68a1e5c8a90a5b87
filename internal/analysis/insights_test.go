package analysis

import (
	"math/rand"
	"strings"
	"testing"
)

func TestInsightsAchievementWithoutSpecificPattern(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	insights := SynthesizeInsights("accomplished", "achievement", "we closed the deal today", 60, rng)
	if insights == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if len(insights) != 0 {
		t.Fatalf("expected no insights, got %v", insights)
	}
}

func TestInsightsPatentApproval(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	insights := SynthesizeInsights("accomplished", "achievement", "Our patent was approved", 60, rng)
	if len(insights) != 1 {
		t.Fatalf("expected one insight, got %v", insights)
	}
	if !strings.Contains(insights[0], "Patent approval") {
		t.Fatalf("unexpected insight: %q", insights[0])
	}
}

func TestInsightsSafetyIncident(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	insights := SynthesizeInsights("stressed", "challenge", "A worker was injured at the site", 60, rng)
	if len(insights) != 1 {
		t.Fatalf("expected one insight, got %v", insights)
	}
	if !strings.Contains(insights[0], "safety") {
		t.Fatalf("unexpected insight: %q", insights[0])
	}
}

func TestInsightsCashPressure(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	insights := SynthesizeInsights("stressed", "challenge", "Not sure we make payroll this month", 60, rng)
	if len(insights) != 1 || !strings.Contains(insights[0], "cash") {
		t.Fatalf("unexpected insights: %v", insights)
	}
}

func TestInsightsMistakeInLearning(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	insights := SynthesizeInsights("reflective", "learning", "I failed to check the contract", 60, rng)
	if len(insights) != 1 || !strings.Contains(insights[0], "tuition") {
		t.Fatalf("unexpected insights: %v", insights)
	}
}

func TestInsightsTemplateSelectionIsSeeded(t *testing.T) {
	first := SynthesizeInsights("optimistic", "growth", "expanding into a new market", 80, rand.New(rand.NewSource(7)))
	second := SynthesizeInsights("optimistic", "growth", "expanding into a new market", 80, rand.New(rand.NewSource(7)))
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Fatalf("expected deterministic selection, got %v vs %v", first, second)
	}

	found := false
	for _, template := range growthTemplates {
		if template == first[0] {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("insight %q not from the growth pool", first[0])
	}
}
