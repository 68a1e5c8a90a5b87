package analysis

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	maxTitleLength = 60
	emptyTitle     = "Journal Entry"
)

// businessElements holds the first trigger found per keyword set, plus the
// first numeric/metric token. First match wins over best match: the scan is
// a single pass in set order.
type businessElements struct {
	Financial string
	People    string
	Product   string
	Strategy  string
	Challenge string
	Success   string
	Metric    string
}

var (
	financialSet = []string{"revenue", "profit", "sales", "cash flow", "funding", "budget", "investment", "pricing"}
	peopleSet    = []string{"team", "customer", "client", "partner", "employee", "investor", "mentor", "staff"}
	productSet   = []string{"product", "feature", "launch", "prototype", "app", "platform", "service", "release"}
	strategySet  = []string{"strategy", "plan", "roadmap", "vision", "pivot", "expansion", "market"}
	obstacleSet  = []string{"problem", "challenge", "issue", "setback", "obstacle", "risk", "crisis", "delay"}
	successSet   = []string{"win", "success", "milestone", "achievement", "breakthrough", "victory", "record", "deal"}

	metricPattern = regexp.MustCompile(`\$[0-9][0-9,]*(?:\.[0-9]+)?[kKmMbB]?|[0-9]+(?:\.[0-9]+)?%|\b[0-9]+(?:\.[0-9]+)?\b`)
)

var titleTemplates = map[string][]string{
	"growth": {
		"Scaling {focus}",
		"Momentum On {focus}",
		"{metric} Growth Push",
		"Growing With {people}",
		"Expanding {focus}",
	},
	"challenge": {
		"Working Through {challenge}",
		"Facing {challenge}",
		"Tackling {challenge} Head On",
		"{challenge} And The Way Forward",
	},
	"achievement": {
		"Victory: {win}",
		"Celebrating {win}",
		"Breaking Through With {win}",
		"{metric} Milestone Reached",
		"{win} In The Books",
	},
	"planning": {
		"Mapping {focus}",
		"Next Steps For {focus}",
		"The Road To {focus}",
		"Planning Around {focus}",
	},
	"learning": {
		"Lessons From {challenge}",
		"What {challenge} Taught Me",
		"Notes On {focus}",
		"Learning About {focus}",
	},
	"research": {
		"Digging Into {focus}",
		"Sizing Up {focus}",
		"What The {people} Data Says",
		"Researching {focus}",
	},
}

// titlePreferences narrows a category pool to templates whose text carries
// the listed substring when the entry's energy and mood pair matches.
var titlePreferences = map[[2]string][]string{
	{"high", "excited"}:      {"Momentum", "Breaking", "Victory"},
	{"high", "accomplished"}: {"Victory", "Milestone", "Celebrating"},
	{"high", "determined"}:   {"Head On", "Push", "The Road"},
	{"medium", "focused"}:    {"Mapping", "Next Steps", "Digging"},
	{"low", "reflective"}:    {"Lessons", "Notes", "What"},
	{"low", "tired"}:         {"Notes", "Working Through"},
}

// GenerateTitle builds a short headline for an entry. It never fails: empty
// content yields the fixed fallback, and the final pass truncates at 60
// characters even mid-word.
func GenerateTitle(content, category, mood, energy string) string {
	if strings.TrimSpace(content) == "" {
		return emptyTitle
	}
	lower := strings.ToLower(content)
	elements := extractElements(lower)

	pool, ok := titleTemplates[category]
	if !ok {
		pool = titleTemplates["learning"]
	}
	pool = filterByPreference(pool, energy, mood)

	best := ""
	bestScore := -1
	for _, template := range pool {
		candidate := populate(template, elements)
		score := scoreCandidate(candidate, elements)
		if score > bestScore {
			bestScore = score
			best = candidate
		}
	}
	return finalizeTitle(best)
}

func extractElements(lower string) businessElements {
	return businessElements{
		Financial: firstTrigger(lower, financialSet),
		People:    firstTrigger(lower, peopleSet),
		Product:   firstTrigger(lower, productSet),
		Strategy:  firstTrigger(lower, strategySet),
		Challenge: firstTrigger(lower, obstacleSet),
		Success:   firstTrigger(lower, successSet),
		Metric:    metricPattern.FindString(lower),
	}
}

func firstTrigger(lower string, set []string) string {
	for _, trigger := range set {
		if compiledElementPatterns[trigger].MatchString(lower) {
			return trigger
		}
	}
	return ""
}

var compiledElementPatterns = func() map[string]*regexp.Regexp {
	patterns := map[string]*regexp.Regexp{}
	for _, set := range [][]string{financialSet, peopleSet, productSet, strategySet, obstacleSet, successSet} {
		for _, trigger := range set {
			patterns[trigger] = compileTrigger(trigger)
		}
	}
	return patterns
}()

func populate(template string, elements businessElements) string {
	focus := firstNonEmpty(elements.Strategy, elements.Product, elements.Financial, "the business")
	substitutions := map[string]string{
		"{focus}":     focus,
		"{people}":    firstNonEmpty(elements.People, "the team"),
		"{metric}":    firstNonEmpty(elements.Metric, "progress"),
		"{product}":   firstNonEmpty(elements.Product, "the product"),
		"{challenge}": firstNonEmpty(elements.Challenge, "a hurdle"),
		"{win}":       firstNonEmpty(elements.Success, "a win"),
	}
	populated := template
	for token, value := range substitutions {
		populated = strings.ReplaceAll(populated, token, value)
	}
	return populated
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// scoreCandidate is the hand-tuned point system: metric presence is worth
// the most, each other extracted element adds two, and short titles get a
// length bonus. Ties keep the earliest template.
func scoreCandidate(candidate string, elements businessElements) int {
	lower := strings.ToLower(candidate)
	score := 0
	if elements.Metric != "" && strings.Contains(lower, strings.ToLower(elements.Metric)) {
		score += 3
	}
	for _, element := range []string{elements.Financial, elements.People, elements.Product, elements.Strategy, elements.Challenge, elements.Success} {
		if element != "" && strings.Contains(lower, element) {
			score += 2
		}
	}
	words := len(strings.Fields(candidate))
	switch {
	case words <= 4:
		score += 2
	case words <= 6:
		score++
	}
	return score
}

func filterByPreference(pool []string, energy, mood string) []string {
	preferred, ok := titlePreferences[[2]string{energy, mood}]
	if !ok {
		return pool
	}
	filtered := []string{}
	for _, template := range pool {
		for _, substring := range preferred {
			if strings.Contains(template, substring) {
				filtered = append(filtered, template)
				break
			}
		}
	}
	if len(filtered) == 0 {
		return pool
	}
	return filtered
}

func finalizeTitle(title string) string {
	words := strings.Fields(title)
	for i, word := range words {
		words[i] = titleCaseWord(word)
	}
	collapsed := strings.Join(words, " ")
	runes := []rune(collapsed)
	if len(runes) > maxTitleLength {
		collapsed = string(runes[:maxTitleLength])
	}
	if collapsed == "" {
		return emptyTitle
	}
	return collapsed
}

func titleCaseWord(word string) string {
	runes := []rune(word)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
	}
	return string(runes)
}
