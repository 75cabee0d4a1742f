package pipeline

import (
	"fmt"
	"strings"

	"github.com/staywise/helpdesk/internal/analyzer"
	"github.com/staywise/helpdesk/internal/models"
)

// Stage names, in processing order.
const (
	StageRouterAnalysis     = "router-analysis"
	StageKnowledgeSearch    = "knowledge-search"
	StageSpecialistSolution = "specialist-solution"
	StageQAReview           = "qa-review"
)

// Stage is one step in the fixed linear processing sequence. The order of
// the Stages slice is the order of execution; it is never reordered.
type Stage struct {
	Name       string
	Label      string
	Agent      string
	ResultType string
	UsesLLM    bool
	Prompt     func(t *models.Ticket, a *analyzer.Classification, prior []string) string
}

var Stages = []Stage{
	{
		Name:       StageRouterAnalysis,
		Label:      "Routing ticket to the right specialist",
		Agent:      "router",
		ResultType: models.EventInsight,
		UsesLLM:    true,
		Prompt:     routerPrompt,
	},
	{
		Name:       StageKnowledgeSearch,
		Label:      "Searching the knowledge base",
		Agent:      "knowledge",
		ResultType: models.EventInsight,
		UsesLLM:    true,
		Prompt:     knowledgePrompt,
	},
	{
		Name:       StageSpecialistSolution,
		Label:      "Drafting a solution",
		Agent:      "", // filled in per category at run time
		ResultType: models.EventCommunication,
		UsesLLM:    true,
		Prompt:     specialistPrompt,
	},
	{
		Name:       StageQAReview,
		Label:      "Reviewing the proposed solution",
		Agent:      "qa",
		ResultType: models.EventInsight,
		UsesLLM:    true,
		Prompt:     qaPrompt,
	},
}

// specialistAgent maps a ticket category to the specialist handling it.
func specialistAgent(category models.Category) string {
	switch category {
	case models.CategoryTechnical:
		return "technical-specialist"
	case models.CategoryBilling:
		return "billing-specialist"
	case models.CategoryProduct:
		return "product-specialist"
	case models.CategoryComplaint:
		return "escalation-specialist"
	default:
		return "support-generalist"
	}
}

func ticketBlock(t *models.Ticket) string {
	return fmt.Sprintf("Ticket: %s\n%s", t.Title, t.Description)
}

func priorBlock(prior []string) string {
	if len(prior) == 0 {
		return "none"
	}
	return strings.Join(prior, "\n---\n")
}

func routerPrompt(t *models.Ticket, a *analyzer.Classification, _ []string) string {
	return fmt.Sprintf(`You are the routing agent of a vacation-rental support desk.
The ticket below was classified as %s (sentiment %.2f, urgency signals: %d).
Explain in two sentences why this routing is appropriate and what the specialist should focus on.

%s`, a.Category, a.Sentiment, len(a.UrgencyIndicators), ticketBlock(t))
}

func knowledgePrompt(t *models.Ticket, a *analyzer.Classification, prior []string) string {
	return fmt.Sprintf(`You are the knowledge-base agent of a vacation-rental support desk.
List the most relevant help articles or known issues for this %s ticket, as short bullet points.
Keywords: %s

Prior analysis:
%s

%s`, a.Category, strings.Join(a.Keywords, ", "), priorBlock(prior), ticketBlock(t))
}

func specialistPrompt(t *models.Ticket, a *analyzer.Classification, prior []string) string {
	return fmt.Sprintf(`You are the %s of a vacation-rental support desk.
Draft a concise reply to the customer resolving their issue. Be specific and actionable.

Prior analysis:
%s

%s`, specialistAgent(a.Category), priorBlock(prior), ticketBlock(t))
}

func qaPrompt(t *models.Ticket, a *analyzer.Classification, prior []string) string {
	return fmt.Sprintf(`You are the quality-assurance agent of a vacation-rental support desk.
Review the drafted reply below for accuracy and tone. Answer with a one-line verdict and any corrections.

Drafted reply and prior analysis:
%s

%s`, priorBlock(prior), ticketBlock(t))
}
