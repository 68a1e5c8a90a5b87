package contract

// LexiconVersion tags the weight tables so results can be traced back to the
// configuration that produced them. Earlier deployments carried drifted
// copies of these tables; v2 is the single authoritative set.
const LexiconVersion = "v2"

const (
	EnergyHigh   = "high"
	EnergyMedium = "medium"
	EnergyLow    = "low"
)

const (
	DefaultMood     = "reflective"
	DefaultCategory = "learning"
)

// EmotionRecord maps a mood label to its trigger phrases, a weight applied
// per match, and the qualitative energy tier of the mood. Trigger order is
// meaningful: the classifier reports triggers in table order and ties on
// score resolve to the earlier record.
type EmotionRecord struct {
	Label    string
	Triggers []string
	Weight   float64
	Energy   string
}

// CategoryRecord maps a business category to its trigger phrases. Categories
// carry no weight; the score is the raw match count plus any rule deltas.
type CategoryRecord struct {
	Label    string
	Triggers []string
}

// EmotionLexicon is immutable after process start. Do not reorder entries:
// tie-breaks depend on position.
var EmotionLexicon = []EmotionRecord{
	{
		Label:    "confident",
		Triggers: []string{"confident", "certain", "assured", "believe in", "no doubt", "self-assured", "conviction"},
		Weight:   0.9,
		Energy:   EnergyHigh,
	},
	{
		Label:    "excited",
		Triggers: []string{"excited", "thrilled", "cant wait", "can't wait", "pumped", "stoked", "exhilarated", "amazing opportunity"},
		Weight:   1.0,
		Energy:   EnergyHigh,
	},
	{
		Label:    "focused",
		Triggers: []string{"focused", "locked in", "concentrating", "deep work", "heads down", "zeroed in"},
		Weight:   0.8,
		Energy:   EnergyMedium,
	},
	{
		Label:    "optimistic",
		Triggers: []string{"optimistic", "hopeful", "looking forward", "bright future", "positive outlook", "promising"},
		Weight:   0.8,
		Energy:   EnergyHigh,
	},
	{
		Label:    "stressed",
		Triggers: []string{"stressed", "overwhelmed", "under pressure", "burnt out", "burning out", "too much on my plate", "anxious"},
		Weight:   0.9,
		Energy:   EnergyHigh,
	},
	{
		Label:    "uncertain",
		Triggers: []string{"uncertain", "not sure", "unsure", "dont know", "don't know", "unclear", "second-guessing", "hesitant"},
		Weight:   0.7,
		Energy:   EnergyLow,
	},
	{
		Label:    "frustrated",
		Triggers: []string{"frustrated", "annoyed", "fed up", "irritated", "sick of", "going nowhere"},
		Weight:   0.9,
		Energy:   EnergyMedium,
	},
	{
		Label:    "sad",
		Triggers: []string{"sad", "unhappy", "feeling down", "disheartened", "discouraged", "miserable"},
		Weight:   0.8,
		Energy:   EnergyLow,
	},
	{
		Label:    "tired",
		Triggers: []string{"tired", "exhausted", "drained", "dont have the energy", "don't have the energy", "worn out", "no energy", "fatigued"},
		Weight:   0.9,
		Energy:   EnergyLow,
	},
	{
		Label:    "accomplished",
		Triggers: []string{"accomplished", "achieved", "completed", "finished", "nailed it", "delivered", "shipped", "approved"},
		Weight:   0.9,
		Energy:   EnergyHigh,
	},
	{
		Label:    "reflective",
		Triggers: []string{"reflecting", "thinking back", "in hindsight", "looking back", "pondering", "contemplating"},
		Weight:   0.6,
		Energy:   EnergyLow,
	},
	{
		Label:    "determined",
		Triggers: []string{"determined", "committed", "wont give up", "won't give up", "pushing forward", "persistent", "relentless"},
		Weight:   0.9,
		Energy:   EnergyHigh,
	},
	{
		Label:    "conflicted",
		Triggers: []string{"conflicted", "torn", "mixed feelings", "on the fence", "dilemma", "cant decide", "can't decide"},
		Weight:   0.7,
		Energy:   EnergyMedium,
	},
}

// CategoryLexicon order matters the same way: ties resolve to the earlier
// record, and "learning" is the zero-score default.
var CategoryLexicon = []CategoryRecord{
	{
		Label:    "growth",
		Triggers: []string{"growth", "expand", "expansion", "scaling", "scale up", "new market", "new customers", "more clients", "revenue increase", "grew", "growing"},
	},
	{
		Label:    "challenge",
		Triggers: []string{"challenge", "problem", "difficult", "struggle", "obstacle", "setback", "crisis", "conflict", "accident", "injured", "injury"},
	},
	{
		Label:    "achievement",
		Triggers: []string{"achievement", "milestone", "won", "win", "success", "launched", "patent", "approved", "award", "signed", "closed the deal"},
	},
	{
		Label:    "planning",
		Triggers: []string{"plan", "planning", "strategy", "roadmap", "next quarter", "next steps", "budget", "forecast", "schedule", "goal setting"},
	},
	{
		Label:    "learning",
		Triggers: []string{"learned", "learning", "lesson", "realized", "discovered", "course", "mentor", "feedback", "takeaway"},
	},
	{
		Label:    "research",
		Triggers: []string{"research", "researching", "market research", "competitor", "survey", "investigate", "investigating", "studying", "exploring options"},
	},
}

// EnergyForMood returns the lexicon tier for a mood label, defaulting to
// medium for labels outside the taxonomy.
func EnergyForMood(label string) string {
	for _, record := range EmotionLexicon {
		if record.Label == label {
			return record.Energy
		}
	}
	return EnergyMedium
}

// KnownMood reports whether the label is part of the mood taxonomy.
func KnownMood(label string) bool {
	for _, record := range EmotionLexicon {
		if record.Label == label {
			return true
		}
	}
	return false
}

// Categories returns the category labels in canonical order.
func Categories() []string {
	labels := make([]string, 0, len(CategoryLexicon))
	for _, record := range CategoryLexicon {
		labels = append(labels, record.Label)
	}
	return labels
}
