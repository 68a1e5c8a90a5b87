package analysis

import (
	"reflect"
	"testing"

	"github.com/delir1um/Bizzin-sub001/internal/analysis/contract"
)

func TestClassifyLocalLowSignalEntry(t *testing.T) {
	result := ClassifyLocal("I feel sad today and dont have the energy")
	if result.PrimaryMood != "tired" {
		t.Fatalf("expected tired, got %q", result.PrimaryMood)
	}
	if result.Confidence != 60 {
		t.Fatalf("expected floored confidence 60, got %d", result.Confidence)
	}
	if result.Energy != contract.EnergyLow {
		t.Fatalf("expected low energy, got %q", result.Energy)
	}
	if !reflect.DeepEqual(result.Emotions, []string{"tired", "sad"}) {
		t.Fatalf("unexpected emotions: %v", result.Emotions)
	}
	if result.Category != "learning" {
		t.Fatalf("expected learning default, got %q", result.Category)
	}
}

func TestClassifyLocalAchievement(t *testing.T) {
	result := ClassifyLocal("Our patent was approved today and the team achieved a major milestone")
	if result.PrimaryMood != "accomplished" {
		t.Fatalf("expected accomplished, got %q", result.PrimaryMood)
	}
	if result.Confidence != 60 {
		t.Fatalf("expected confidence 60, got %d", result.Confidence)
	}
	if result.Energy != contract.EnergyHigh {
		t.Fatalf("expected high energy, got %q", result.Energy)
	}
	if result.Category != "achievement" {
		t.Fatalf("expected achievement, got %q", result.Category)
	}
}

func TestClassifyLocalExcitedAnticipation(t *testing.T) {
	result := ClassifyLocal("So excited about the launch, cant wait to show everyone")
	if result.PrimaryMood != "excited" {
		t.Fatalf("expected excited, got %q", result.PrimaryMood)
	}
	if result.Confidence != 100 {
		t.Fatalf("expected full confidence, got %d", result.Confidence)
	}
	if result.Energy != contract.EnergyHigh {
		t.Fatalf("expected high energy, got %q", result.Energy)
	}
	if !reflect.DeepEqual(result.Emotions, []string{"excited"}) {
		t.Fatalf("unexpected emotions: %v", result.Emotions)
	}
}

func TestClassifyLocalNoMatches(t *testing.T) {
	result := ClassifyLocal("Regular day at the office")
	if result.PrimaryMood != contract.DefaultMood {
		t.Fatalf("expected default mood, got %q", result.PrimaryMood)
	}
	if result.Confidence != 70 {
		t.Fatalf("expected no-match confidence 70, got %d", result.Confidence)
	}
	if result.Energy != contract.EnergyLow {
		t.Fatalf("expected low energy, got %q", result.Energy)
	}
	if !reflect.DeepEqual(result.Emotions, []string{contract.DefaultMood}) {
		t.Fatalf("unexpected emotions: %v", result.Emotions)
	}
	if result.Category != contract.DefaultCategory {
		t.Fatalf("expected default category, got %q", result.Category)
	}
}

func TestClassifyLocalReportsTopThreeMoods(t *testing.T) {
	result := ClassifyLocal("I am excited and confident but also stressed and tired")
	if result.PrimaryMood != "excited" {
		t.Fatalf("expected excited, got %q", result.PrimaryMood)
	}
	if !reflect.DeepEqual(result.Emotions, []string{"excited", "confident", "stressed"}) {
		t.Fatalf("unexpected emotions: %v", result.Emotions)
	}
}

func TestClassifyLocalAlwaysWellFormed(t *testing.T) {
	inputs := []string{
		"",
		"ok",
		"I feel sad today and dont have the energy",
		"excited excited excited cant wait cant wait",
		"We grew revenue $1.2m in sales and hired a new team while stressed about cash flow",
		"研究 competitor データ and exploring options",
		"!!!???",
		"patent application approved",
	}
	validEnergy := map[string]bool{contract.EnergyHigh: true, contract.EnergyMedium: true, contract.EnergyLow: true}
	validCategory := map[string]bool{}
	for _, label := range contract.Categories() {
		validCategory[label] = true
	}

	for _, input := range inputs {
		result := ClassifyLocal(input)
		if result.Confidence < 0 || result.Confidence > 100 {
			t.Fatalf("%q: confidence %d out of range", input, result.Confidence)
		}
		if !validEnergy[result.Energy] {
			t.Fatalf("%q: unexpected energy %q", input, result.Energy)
		}
		if !validCategory[result.Category] {
			t.Fatalf("%q: unexpected category %q", input, result.Category)
		}
		if !contract.KnownMood(result.PrimaryMood) {
			t.Fatalf("%q: unexpected mood %q", input, result.PrimaryMood)
		}
		if len(result.Emotions) == 0 || len(result.Emotions) > 3 {
			t.Fatalf("%q: unexpected emotions %v", input, result.Emotions)
		}
	}
}

func TestCategorizeTextSafetyOverridesGrowth(t *testing.T) {
	category := CategorizeText("We grew fast this month but one worker was injured at work")
	if category != "challenge" {
		t.Fatalf("expected challenge, got %q", category)
	}
}

func TestCategorizeTextDollarGrowth(t *testing.T) {
	if got := CategorizeText("We pulled in $50k in revenue"); got != "growth" {
		t.Fatalf("expected growth, got %q", got)
	}
	if got := CategorizeText("We lost sales badly, down $50k in revenue"); got == "growth" {
		t.Fatalf("guard should block the growth boost")
	}
}
