package analysis

import "regexp"

const (
	TargetMood     = "mood"
	TargetCategory = "category"
)

// ScoreRule is a single declarative scoring adjustment. Pattern must match,
// Require (when set) must also match, Guard (when set) must not match; the
// Delta is then added to the Label's score for the Target pass. Rules run in
// table order after the base lexicon tally, so priority lives here as data
// rather than in conditional nesting.
type ScoreRule struct {
	Name    string
	Target  string
	Label   string
	Pattern *regexp.Regexp
	Require *regexp.Regexp
	Guard   *regexp.Regexp
	Delta   float64
}

// ScoreRules is the canonical rule table. Deltas are hand-tuned against the
// category and mood tallies they adjust; each rule is testable in isolation
// via Applies.
var ScoreRules = []ScoreRule{
	{
		Name:    "dollar-growth",
		Target:  TargetCategory,
		Label:   "growth",
		Pattern: regexp.MustCompile(`\$[0-9][0-9,]*(?:\.[0-9]+)?[km]?\s+(?:in\s+)?(?:revenue|sales|growth)|revenue\s+(?:grew|doubled|tripled|increased)|sales\s+(?:grew|doubled|climbed)`),
		Guard:   regexp.MustCompile(`(?:lost|losing|declining|dropped|down)\s+(?:revenue|sales)|revenue\s+(?:loss|dropped|declined|is\s+down)`),
		Delta:   6,
	},
	{
		Name:    "workplace-safety",
		Target:  TargetCategory,
		Label:   "challenge",
		Pattern: regexp.MustCompile(`workplace\s+(?:accident|injury|incident)|(?:accident|injured|injury|hurt)\s+(?:at|on)\s+(?:work|the\s+site|site)|safety\s+incident`),
		Delta:   8,
	},
	{
		Name:    "excited-anticipation",
		Target:  TargetMood,
		Label:   "excited",
		Pattern: regexp.MustCompile(`\bexcited\b`),
		Require: regexp.MustCompile(`\bcan'?t wait\b`),
		Delta:   1.5,
	},
}

// Applies reports whether the rule fires for the given lowercased text.
func (r ScoreRule) Applies(text string) bool {
	if !r.Pattern.MatchString(text) {
		return false
	}
	if r.Require != nil && !r.Require.MatchString(text) {
		return false
	}
	if r.Guard != nil && r.Guard.MatchString(text) {
		return false
	}
	return true
}

func applyRules(text, target string, scores map[string]float64) {
	for _, rule := range ScoreRules {
		if rule.Target != target {
			continue
		}
		if rule.Applies(text) {
			scores[rule.Label] += rule.Delta
		}
	}
}
