package analyzer

import (
	"reflect"
	"testing"

	"github.com/staywise/helpdesk/internal/models"
)

func TestAnalyzeDeterministic(t *testing.T) {
	title := "iCal sync broken"
	desc := "My calendar sync stopped working, getting double bookings, this is urgent"

	first := Analyze(title, desc)
	second := Analyze(title, desc)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results for identical input:\nfirst=%+v\nsecond=%+v", first, second)
	}
}

func TestAnalyzeTechnicalUrgentTicket(t *testing.T) {
	result := Analyze(
		"iCal sync broken",
		"My calendar sync stopped working, getting double bookings, this is urgent",
	)

	if result.Category != models.CategoryTechnical {
		t.Fatalf("expected TECHNICAL, got %s (scores=%v)", result.Category, result.CategoryScores)
	}
	if result.Sentiment >= 0 {
		t.Errorf("expected negative sentiment, got %f", result.Sentiment)
	}
	wantIndicators := map[string]bool{
		"Explicit urgency expressed": false,
		"Booking conflict reported":  false,
	}
	for _, ind := range result.UrgencyIndicators {
		if _, ok := wantIndicators[ind]; ok {
			wantIndicators[ind] = true
		}
	}
	for label, found := range wantIndicators {
		if !found {
			t.Errorf("expected urgency indicator %q, got %v", label, result.UrgencyIndicators)
		}
	}
}

func TestAnalyzeBillingTicketWithDateEntity(t *testing.T) {
	result := Analyze("Refund question", "Guest wants a refund for last week's stay")

	if result.Category != models.CategoryBilling {
		t.Fatalf("expected BILLING, got %s (scores=%v)", result.Category, result.CategoryScores)
	}
	foundDate := false
	for _, d := range result.Entities.Dates {
		if d == "last week" {
			foundDate = true
		}
	}
	if !foundDate {
		t.Errorf("expected dates to include \"last week\", got %v", result.Entities.Dates)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	result := Analyze("", "")

	if result.Category != models.CategoryGeneral {
		t.Fatalf("expected GENERAL for empty input, got %s", result.Category)
	}
	wantScores := map[models.Category]float64{
		models.CategoryTechnical: 0,
		models.CategoryBilling:   0,
		models.CategoryProduct:   0,
		models.CategoryGeneral:   1.0,
		models.CategoryComplaint: 0,
	}
	if !reflect.DeepEqual(result.CategoryScores, wantScores) {
		t.Errorf("unexpected scores for empty input: %v", result.CategoryScores)
	}
	if result.Sentiment != 0 {
		t.Errorf("expected zero sentiment, got %f", result.Sentiment)
	}
	if len(result.UrgencyIndicators) != 0 {
		t.Errorf("expected no urgency indicators, got %v", result.UrgencyIndicators)
	}
	if len(result.Keywords) != 0 {
		t.Errorf("expected no keywords, got %v", result.Keywords)
	}
}

func TestScoreNormalization(t *testing.T) {
	inputs := []struct{ title, desc string }{
		{"iCal sync broken", "calendar sync stopped working"},
		{"Refund question", "Guest wants a refund"},
		{"Feature request", "Would love a pricing dashboard upgrade"},
		{"Terrible experience", "This is unacceptable, worst support ever"},
		{"hello", "just saying hi"},
		{"", ""},
	}

	for _, in := range inputs {
		result := Analyze(in.title, in.desc)

		max := 0.0
		for _, score := range result.CategoryScores {
			if score > max {
				max = score
			}
		}
		if max != 1.0 {
			t.Errorf("input %q: expected max score 1.0, got %f (scores=%v)",
				in.title, max, result.CategoryScores)
		}
		if result.CategoryScores[result.Category] != max {
			t.Errorf("input %q: category %s is not the arg-max (scores=%v)",
				in.title, result.Category, result.CategoryScores)
		}
	}
}

func TestSentimentBounds(t *testing.T) {
	inputs := []struct{ title, desc string }{
		{"awful terrible worst", "broken failed useless unacceptable frustrated angry disappointed urgent"},
		{"great thanks", "excellent awesome helpful perfect love appreciate"},
		{"", ""},
	}
	for _, in := range inputs {
		result := Analyze(in.title, in.desc)
		if result.Sentiment < -1 || result.Sentiment > 1 {
			t.Errorf("input %q: sentiment %f out of [-1, 1]", in.title, result.Sentiment)
		}
	}
}

func TestCategoryTieBreakOrder(t *testing.T) {
	// "refund" and "sync" are both strong-tier hits, so TECHNICAL and
	// BILLING tie; TECHNICAL wins by declaration order.
	result := Analyze("sync refund", "")

	if result.CategoryScores[models.CategoryTechnical] != result.CategoryScores[models.CategoryBilling] {
		t.Fatalf("test setup broken, expected a tie: %v", result.CategoryScores)
	}
	if result.Category != models.CategoryTechnical {
		t.Errorf("expected tie to break to TECHNICAL, got %s", result.Category)
	}
}

func TestKeywordExtractionCapsGenericWords(t *testing.T) {
	result := Analyze("", "alpha bravo charlie delta echoes foxtrot giraffe")

	if len(result.Keywords) != 5 {
		t.Fatalf("expected 5 generic keywords, got %d: %v", len(result.Keywords), result.Keywords)
	}
	want := []string{"alpha", "bravo", "charlie", "delta", "echoes"}
	if !reflect.DeepEqual(result.Keywords, want) {
		t.Errorf("expected first five tokens %v, got %v", want, result.Keywords)
	}
}

func TestKeywordExtractionPhrasesAndDomainTerms(t *testing.T) {
	result := Analyze("Smart lock not working", "the smart lock is broken")

	seen := make(map[string]bool)
	for _, k := range result.Keywords {
		if seen[k] {
			t.Errorf("duplicate keyword %q in %v", k, result.Keywords)
		}
		seen[k] = true
	}
	for _, want := range []string{"smart lock", "not working", "broken"} {
		if !seen[want] {
			t.Errorf("expected keyword %q, got %v", want, result.Keywords)
		}
	}
}

func TestUrgencyIndicatorOrder(t *testing.T) {
	result := Analyze("urgent", "guest locked out tonight, double booked")

	want := []string{
		"Explicit urgency expressed",
		"Booking conflict reported",
		"Guest blocked at check-in",
		"Time-critical window",
	}
	if !reflect.DeepEqual(result.UrgencyIndicators, want) {
		t.Errorf("expected indicators in pattern order %v, got %v", want, result.UrgencyIndicators)
	}
}

func TestPriorityDerivation(t *testing.T) {
	cases := []struct {
		name  string
		title string
		desc  string
		want  string
	}{
		{"two indicators", "urgent double booking", "", models.PriorityHigh},
		{"one indicator", "please fix asap", "", models.PriorityMedium},
		{"calm ticket", "question about payout schedule", "", models.PriorityNormal},
	}
	for _, tc := range cases {
		result := Analyze(tc.title, tc.desc)
		if got := result.Priority(); got != tc.want {
			t.Errorf("%s: expected priority %s, got %s (indicators=%v sentiment=%f)",
				tc.name, tc.want, got, result.UrgencyIndicators, result.Sentiment)
		}
	}
}
