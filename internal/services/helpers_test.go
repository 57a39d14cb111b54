package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/atmohq/atmo-backend/internal/data/repos"
	"github.com/atmohq/atmo-backend/internal/data/repos/testutil"
	chatmod "github.com/atmohq/atmo-backend/internal/modules/chat"
	"github.com/atmohq/atmo-backend/internal/modules/docgen"
	"github.com/atmohq/atmo-backend/internal/platform/llm"
	"github.com/atmohq/atmo-backend/internal/platform/redis"
)

type fixture struct {
	t       *testing.T
	db      *gorm.DB
	repos   repos.Set
	user    uuid.UUID
	chatLLM *llm.Scripted
	docLLM  *llm.Scripted
	docs    *documentService
	chat    ChatService
	guard   redis.MessageGuard
}

func newFixture(t *testing.T, guard redis.MessageGuard) *fixture {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	set := repos.NewSet(gdb, log)
	f := &fixture{t: t, db: gdb, repos: set, user: uuid.New(), chatLLM: &llm.Scripted{}, docLLM: &llm.Scripted{}, guard: guard}

	gen := docgen.NewGenerator(log, f.docLLM, docgen.Config{MaxAttempts: 2})
	f.docs = NewDocumentService(log, gen, set.Outputs, nil).(*documentService)
	orch := chatmod.NewOrchestrator(chatmod.Deps{Log: log, LLM: f.chatLLM, Repos: set})
	f.chat = NewChatService(log, set, chatmod.NewFetcher(log, set), orch, f.docs, guard)
	return f
}

func (f *fixture) reply(text string, entities ...map[string]any) {
	if entities == nil {
		entities = []map[string]any{}
	}
	b, err := json.Marshal(map[string]any{"conversationalResponse": text, "entities": entities})
	require.NoError(f.t, err)
	f.chatLLM.Responses = append(f.chatLLM.Responses, string(b))
}

func (f *fixture) send(msg string) (*SendResult, error) {
	return f.chat.Send(context.Background(), SendInput{UserID: f.user, Email: "ada@example.com", FullName: "Ada Lovelace", Message: msg})
}

func growthPlan() *docgen.StrategicDocument {
	twice := func(s string) string { return s + " " + s }
	return &docgen.StrategicDocument{
		Title: "Phoenix Growth Plan",
		ExecutiveSummary: "Ada will grow Phoenix from 120 to 500 paying teams by March 2027 through self-serve onboarding, " +
			"usage pricing and a partner referral loop funded from the 40k EUR runway, lifting week-one retention from 22% to 35%. Weekly reviews keep the team on pace.",
		StrategicAnalysis: docgen.StrategicAnalysis{
			MarketPositioning:     twice("Phoenix targets teams of 5 to 50 people who outgrow spreadsheets but find enterprise suites too slow."),
			CompetitiveAdvantages: twice("Setup takes under ten minutes and existing integrations already drive 30% of new signups every month."),
			RiskAssessment:        twice("Churn after the free tier is the main risk, handled with a guided checklist and weekly success calls."),
		},
		DetailedActionPlan: []docgen.ActionItem{
			{Step: "Ship onboarding", Owner: "Ada", Deadline: "2026-11-30", Resources: "2 engineers", SuccessMetric: "40% activation"},
			{Step: "Launch pricing", Owner: "Ada", Deadline: "2026-12-15", Resources: "Billing plan", SuccessMetric: "150 upgrades"},
			{Step: "Sign partners", Owner: "Growth lead", Deadline: "2027-01-15", Resources: "3k EUR budget", SuccessMetric: "10 partners"},
			{Step: "Success calls", Owner: "Support lead", Deadline: "2027-02-01", Resources: "Calendar tooling", SuccessMetric: "Churn below 4%"},
		},
		ImplementationTimeline: []docgen.TimelinePhase{
			{Milestone: "Onboarding beta", StartDate: "2026-11-01", EndDate: "2026-11-30"},
			{Milestone: "Pricing launch", StartDate: "2026-12-01", EndDate: "2026-12-15"},
			{Milestone: "Partner program", StartDate: "2026-12-16", EndDate: "2027-01-31"},
			{Milestone: "Retention push", StartDate: "2027-02-01", EndDate: "2027-03-31"},
		},
		KeyPerformanceIndicators: []docgen.KPI{
			{Metric: "Paying teams", Baseline: "120", Target: "500", Cadence: "monthly"},
			{Metric: "Week-one retention", Baseline: "22%", Target: "35%", Cadence: "weekly"},
			{Metric: "Referral share", Baseline: "30%", Target: "45%", Cadence: "monthly"},
			{Metric: "Monthly churn", Baseline: "7%", Target: "4%", Cadence: "monthly"},
		},
		ResourceRequirements: []docgen.ResourceRequirement{
			{Category: "Engineering", Details: "2 engineers for 8 weeks", Cost: "24,000 EUR"},
			{Category: "Marketing", Details: "Partner kit and launch ads", Cost: "6,000 EUR"},
			{Category: "Tooling", Details: "Billing and analytics", Cost: "400 EUR per month"},
		},
	}
}

func docJSON(t *testing.T, doc *docgen.StrategicDocument) string {
	t.Helper()
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(b)
}

type busyGuard struct{}

func (busyGuard) Acquire(context.Context, string, string) (func(), error) {
	return nil, redis.ErrInFlight
}
func (busyGuard) Close() error { return nil }

func contains(haystack, needle string) bool { return strings.Contains(haystack, needle) }
