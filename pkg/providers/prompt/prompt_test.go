package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/providers/prompt"
	"github.com/refinehq/refine/pkg/ports"
)

func TestSupervisor_Placeholders(t *testing.T) {
	got := prompt.Supervisor(ports.OracleRequest{
		Query:       "build a fitness tracker",
		CurrentStep: 2,
		MaxSteps:    10,
		CurrentDate: "August 30, 2026",
	})

	assert.Contains(t, got, "User Query: build a fitness tracker")
	assert.Contains(t, got, "Current Step: 2/10")
	assert.Contains(t, got, "Domain Expert Analysis: Not completed")
	assert.Contains(t, got, "Debate Resolution: Not applicable")
	assert.Contains(t, got, "Agent History: []")
	assert.Contains(t, got, "Current Date: August 30, 2026")
}

func TestSupervisor_CarriesStateAndContext(t *testing.T) {
	got := prompt.Supervisor(ports.OracleRequest{
		Query:               "build a fitness tracker",
		CurrentStep:         3,
		MaxSteps:            10,
		History:             []domain.HistoryEntry{{Step: 1, Agent: "supervisor"}},
		DomainAnalysis:      "health data is regulated",
		ConversationContext: "Previous Conversation Context:\n- Step 2: earlier question (Agent: supervisor)\n",
		CurrentDate:         "August 30, 2026",
	})

	assert.Contains(t, got, "Domain Expert Analysis: health data is regulated")
	assert.Contains(t, got, `"agent":"supervisor"`)
	assert.Contains(t, got, "Previous Conversation Context:")
}

func TestModerator_InlinesAllAnalyses(t *testing.T) {
	got := prompt.Moderator(ports.ModeratorRequest{
		Query:             "build a fitness tracker",
		DomainAnalysis:    "domain block",
		UXAnalysis:        "ux block",
		TechnicalAnalysis: "tech block",
		RevenueAnalysis:   "revenue block",
		CurrentDate:       "August 30, 2026",
	})

	assert.Contains(t, got, "Domain Expert Analysis: domain block")
	assert.Contains(t, got, "UX/UI Specialist Analysis: ux block")
	assert.Contains(t, got, "Technical Architect Analysis: tech block")
	assert.Contains(t, got, "Revenue Model Analyst Analysis: revenue block")
}

func TestDebate_UsesContent(t *testing.T) {
	got := prompt.Debate(ports.DebateRequest{
		Query:       "resolve the storage dispute",
		Content:     "SQL versus NoSQL for order history",
		CurrentDate: "August 30, 2026",
	})

	assert.Contains(t, got, "Debate Content: SQL versus NoSQL for order history")
	assert.Contains(t, got, "User Query: resolve the storage dispute")
}
