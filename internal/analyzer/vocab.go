package analyzer

import "regexp"

// Multi-word phrases are scanned before single terms so that compound
// concepts like "double booking" land in the keyword set verbatim.
var phraseKeywords = []string{
	"smart lock",
	"calendar sync",
	"channel manager",
	"double booking",
	"not working",
	"stopped working",
	"payment failed",
	"how to",
	"check-in",
	"check-out",
}

var technicalTerms = []string{
	"sync", "ical", "calendar", "api", "integration",
	"webhook", "login", "password", "error", "bug", "crash",
}

var billingTerms = []string{
	"refund", "payment", "charge", "invoice",
	"payout", "billing", "fee", "deposit",
}

var productTerms = []string{
	"feature", "pricing", "listing", "availability", "dashboard", "upgrade",
}

var issueTerms = []string{
	"broken", "failed", "missing", "slow", "stuck", "wrong",
}

var stopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {},
	"been": {}, "were": {}, "they": {}, "them": {}, "their": {},
	"there": {}, "which": {}, "when": {}, "what": {}, "your": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "about": {},
}

// Entity vocabularies. The four scans are independent and non-exclusive:
// the same text may populate several sets.
var systemVocab = []string{
	"ical", "airbnb", "vrbo", "booking.com", "stripe", "smart lock",
	"channel manager", "calendar", "mobile app", "website", "dashboard",
}

var issueVocab = []string{
	"not working", "stopped working", "broken", "double booking",
	"error", "failed", "crash", "missing", "locked out",
}

var featureVocab = []string{
	"sync", "calendar", "payout", "messaging", "pricing",
	"listing", "smart lock", "review", "instant book",
}

var dateRegexes = []*regexp.Regexp{
	regexp.MustCompile(`\d+ (day|hour|week|month)s? ago`),
	regexp.MustCompile(`\b(yesterday|today|tomorrow)\b`),
	regexp.MustCompile(`last (week|month|year)`),
}

var negativeWords = []string{
	"broken", "failed", "terrible", "awful", "frustrated",
	"angry", "disappointed", "unacceptable", "worst", "useless",
}

var positiveWords = []string{
	"great", "thanks", "thank", "love", "excellent",
	"awesome", "helpful", "perfect", "appreciate",
}

var urgencyTerms = []string{"urgent", "asap", "immediately"}

// urgencyPatterns are checked in declaration order; each contributes its
// label at most once per analysis.
var urgencyPatterns = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`urgent|asap|immediately|right away`), "Explicit urgency expressed"},
	{regexp.MustCompile(`double[- ]?book|overbook`), "Booking conflict reported"},
	{regexp.MustCompile(`locked out|can.?t (get|check) in`), "Guest blocked at check-in"},
	{regexp.MustCompile(`(cannot|can.?t|unable to) (access|log ?in)`), "Account access blocked"},
	{regexp.MustCompile(`(losing|lost|lose) (money|revenue|bookings?)`), "Revenue at risk"},
	{regexp.MustCompile(`tonight|right now|within the hour`), "Time-critical window"},
}

// Category scoring tiers. A term hit is worth 0.3 (strong), 0.2 (medium) or
// 0.1 (weak). Terms deliberately overlap across categories and with the
// urgency/sentiment lists; consolidating them changes scoring behavior.
var categoryTiers = []categoryTier{
	{
		category: "TECHNICAL",
		strong:   []string{"sync", "ical", "api", "error", "bug", "crash", "broken"},
		medium:   []string{"calendar", "integration", "login", "password", "webhook"},
		weak:     []string{"slow", "timeout", "glitch"},
	},
	{
		category: "BILLING",
		strong:   []string{"refund", "payment", "charge", "payout"},
		medium:   []string{"invoice", "billing", "fee", "deposit"},
		weak:     []string{"price", "cost", "money"},
	},
	{
		category: "PRODUCT",
		strong:   []string{"feature", "listing", "availability"},
		medium:   []string{"pricing", "dashboard", "upgrade"},
		weak:     []string{"plan", "option", "setting"},
	},
	{
		category: "COMPLAINT",
		strong:   []string{"terrible", "unacceptable", "worst", "awful"},
		medium:   []string{"disappointed", "frustrated", "angry"},
		weak:     []string{"unhappy", "complaint", "poor"},
	},
}

type categoryTier struct {
	category string
	strong   []string
	medium   []string
	weak     []string
}
