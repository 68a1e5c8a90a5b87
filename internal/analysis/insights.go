package analysis

import (
	"math/rand"
	"strings"
)

var challengeTemplates = []string{
	"Difficult stretches are where operating discipline gets built. Write down the single biggest blocker and who can unblock it.",
	"Challenges compound when they stay in your head. Break this one into the next three concrete actions and schedule the first.",
	"Every business hits walls. The ones that last treat each wall as a forcing function to simplify what they do.",
}

var growthTemplates = []string{
	"Growth strains every system that got you here. Check which process breaks first at twice the current volume.",
	"Momentum is easiest to keep while you have it. Decide what you will deliberately not pursue this quarter.",
	"New demand is validation. Capture where it is coming from before the signal blurs.",
}

var planningTemplates = []string{
	"A plan is only as good as its first checkpoint. Put a review date on this one.",
	"Good planning separates what must be true from what you hope is true. List both columns.",
	"Strategy gets real when it costs something. Note what this plan says no to.",
}

var learningTemplates = []string{
	"Write the lesson as a rule you can apply next time, not just a story about this time.",
	"Learning sticks when it changes a default. Pick one habit this insight should update.",
	"Share this lesson with one person on your team; teaching it will sharpen it.",
}

var researchTemplates = []string{
	"Research pays off when it ends in a decision. Name the choice this work is meant to settle.",
	"Document your sources now; future you will want to know why you believed this.",
	"Time-box the digging. Set a date where you act on the best answer you have.",
}

// SynthesizeInsights maps a classified entry to at most one recommendation
// string. Category-specific phrasing wins over the template pools; the
// achievement branch returns nothing rather than a generic line when no
// specific pattern is recognized. Template choice draws from rng so callers
// control determinism; confidence rides along for callers that thread the
// full classification through.
func SynthesizeInsights(mood, category, text string, confidence int, rng *rand.Rand) []string {
	lower := strings.ToLower(text)

	switch category {
	case "challenge":
		if containsAny(lower, "accident", "injured", "injury", "safety") {
			return []string{"Workplace safety incidents require immediate attention. Document what happened, support the people affected, and review procedures before work resumes."}
		}
		if containsAny(lower, "cash flow", "payroll", "runway") {
			return []string{"Cash pressure narrows options fast. Build a thirteen-week cash view before making any other decision."}
		}
		return pickTemplate(rng, challengeTemplates)
	case "growth":
		if containsAny(lower, "hiring", "new hire", "recruit") {
			return []string{"Hiring is the highest-leverage growth decision you make. Define what great looks like for this role before the first interview."}
		}
		if containsAny(lower, "revenue", "sales") {
			return []string{"Revenue growth hides operational debt. Confirm margins are holding while the topline moves."}
		}
		return pickTemplate(rng, growthTemplates)
	case "achievement":
		if strings.Contains(lower, "patent") {
			return []string{"Patent approval is a meaningful moat. Map which products it protects and where licensing could open a second revenue line."}
		}
		if strings.Contains(lower, "award") {
			return []string{"Awards are third-party proof. Fold this one into your sales materials while it is current."}
		}
		if containsAny(lower, "funding", "investment", "investor") {
			return []string{"New capital resets the clock on expectations. Agree with your backers on the two metrics that define this round's success."}
		}
		// No generic fallback here: an empty list tells the caller nothing
		// specific was recognized.
		return []string{}
	case "planning":
		if containsAny(lower, "quarter", "q1", "q2", "q3", "q4") {
			return []string{"Quarterly plans drift by week six. Book a mid-quarter checkpoint now, while the intent is fresh."}
		}
		return pickTemplate(rng, planningTemplates)
	case "research":
		if strings.Contains(lower, "competitor") {
			return []string{"Competitor moves are data, not directives. Note what they know that you might not, then return to your own plan."}
		}
		if containsAny(lower, "survey", "interview", "customer call") {
			return []string{"Direct customer input beats any dashboard. Tag the exact words customers used; they belong in your copy."}
		}
		return pickTemplate(rng, researchTemplates)
	default:
		if containsAny(lower, "mistake", "failed", "failure") {
			return []string{"Mistakes are tuition. Capture the decision point where things went sideways and what signal you missed."}
		}
		return pickTemplate(rng, learningTemplates)
	}
}

func pickTemplate(rng *rand.Rand, templates []string) []string {
	if len(templates) == 0 {
		return []string{}
	}
	return []string{templates[rng.Intn(len(templates))]}
}

func containsAny(text string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
