package analysis

import (
	"math"
	"regexp"
	"strings"

	"github.com/delir1um/Bizzin-sub001/internal/analysis/contract"
)

// expectedMaxScore is the raw mood score treated as full confidence. The
// floor below keeps displayed confidence from dipping into a range that
// reads as "the app has no idea"; confidence is a presentation value.
const (
	expectedMaxScore  = 3.0
	confidenceFloor   = 0.6
	noMatchConfidence = 0.7
	maxReportedMoods  = 3
)

type compiledEmotion struct {
	record   contract.EmotionRecord
	patterns []*regexp.Regexp
}

type compiledCategory struct {
	record   contract.CategoryRecord
	patterns []*regexp.Regexp
}

var (
	emotionMatchers  = compileEmotions(contract.EmotionLexicon)
	categoryMatchers = compileCategories(contract.CategoryLexicon)
)

func compileTrigger(trigger string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(trigger) + `\b`)
}

func compileEmotions(records []contract.EmotionRecord) []compiledEmotion {
	out := make([]compiledEmotion, 0, len(records))
	for _, record := range records {
		compiled := compiledEmotion{record: record}
		for _, trigger := range record.Triggers {
			compiled.patterns = append(compiled.patterns, compileTrigger(trigger))
		}
		out = append(out, compiled)
	}
	return out
}

func compileCategories(records []contract.CategoryRecord) []compiledCategory {
	out := make([]compiledCategory, 0, len(records))
	for _, record := range records {
		compiled := compiledCategory{record: record}
		for _, trigger := range record.Triggers {
			compiled.patterns = append(compiled.patterns, compileTrigger(trigger))
		}
		out = append(out, compiled)
	}
	return out
}

// LocalClassification is the mood half of a result before insights and
// title synthesis run.
type LocalClassification struct {
	PrimaryMood string
	Confidence  int
	Energy      string
	Emotions    []string
	Category    string
}

// ClassifyLocal scores text against the lexicon and resolves mood,
// confidence, energy and category. It never fails: texts with no trigger
// matches resolve to the default labels.
func ClassifyLocal(text string) LocalClassification {
	lower := strings.ToLower(text)

	moodScores := map[string]float64{}
	for _, matcher := range emotionMatchers {
		score := 0.0
		for _, pattern := range matcher.patterns {
			matches := len(pattern.FindAllStringIndex(lower, -1))
			score += float64(matches) * matcher.record.Weight
		}
		if score > 0 {
			moodScores[matcher.record.Label] = score
		}
	}
	applyRules(lower, TargetMood, moodScores)

	primary := contract.DefaultMood
	best := 0.0
	for _, matcher := range emotionMatchers {
		score := moodScores[matcher.record.Label]
		if score > best {
			best = score
			primary = matcher.record.Label
		}
	}

	return LocalClassification{
		PrimaryMood: primary,
		Confidence:  confidenceFor(best),
		Energy:      blendEnergy(moodScores),
		Emotions:    topMoods(moodScores, primary),
		Category:    CategorizeText(text),
	}
}

// CategorizeText runs the category pass on its own: raw match counts per
// category plus the rule-table deltas, earliest record winning ties, with
// "learning" as the zero-score default. The remote path reuses this because
// the inference models only label sentiment and emotion.
func CategorizeText(text string) string {
	lower := strings.ToLower(text)

	scores := map[string]float64{}
	for _, matcher := range categoryMatchers {
		count := 0
		for _, pattern := range matcher.patterns {
			count += len(pattern.FindAllStringIndex(lower, -1))
		}
		if count > 0 {
			scores[matcher.record.Label] = float64(count)
		}
	}
	applyRules(lower, TargetCategory, scores)

	category := contract.DefaultCategory
	best := 0.0
	for _, matcher := range categoryMatchers {
		score := scores[matcher.record.Label]
		if score > best {
			best = score
			category = matcher.record.Label
		}
	}
	return category
}

func confidenceFor(rawScore float64) int {
	var confidence float64
	if rawScore > 0 {
		confidence = math.Min(rawScore/expectedMaxScore, 1.0)
		if confidence < confidenceFloor {
			confidence = confidenceFloor
		}
	} else {
		confidence = noMatchConfidence
	}
	return int(math.Round(confidence * 100))
}

func blendEnergy(moodScores map[string]float64) string {
	total := 0.0
	weighted := 0.0
	for _, matcher := range emotionMatchers {
		score := moodScores[matcher.record.Label]
		if score <= 0 {
			continue
		}
		total += score
		weighted += score * energyValue(matcher.record.Energy)
	}
	if total == 0 {
		return contract.EnergyLow
	}
	average := weighted / total
	switch {
	case average >= 2.5:
		return contract.EnergyHigh
	case average >= 1.5:
		return contract.EnergyMedium
	default:
		return contract.EnergyLow
	}
}

func energyValue(tier string) float64 {
	switch tier {
	case contract.EnergyHigh:
		return 3
	case contract.EnergyMedium:
		return 2
	default:
		return 1
	}
}

func topMoods(moodScores map[string]float64, primary string) []string {
	type scored struct {
		label string
		score float64
	}
	ranked := []scored{}
	for _, matcher := range emotionMatchers {
		score := moodScores[matcher.record.Label]
		if score > 0 {
			ranked = append(ranked, scored{label: matcher.record.Label, score: score})
		}
	}
	if len(ranked) == 0 {
		return []string{primary}
	}
	// Insertion sort keeps equal scores in lexicon order.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].score > ranked[j-1].score; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	limit := len(ranked)
	if limit > maxReportedMoods {
		limit = maxReportedMoods
	}
	labels := make([]string, 0, limit)
	for _, entry := range ranked[:limit] {
		labels = append(labels, entry.label)
	}
	return labels
}
