package runtime

import (
	"fmt"
	"strings"
	"time"

	"github.com/refinehq/refine/pkg/domain"
)

func currentDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

// The format* helpers turn structured provider outputs into the text
// blocks stored on State. Downstream prompts and API responses consume
// these blocks as plain text.

func formatDomainAnalysis(r *domain.DomainAnalysisResult) string {
	return strings.TrimSpace(fmt.Sprintf(`Domain Analysis: %s

Domain Requirements:
%s

Domain Concerns:
%s

Priority Level: %s`,
		r.DomainAnalysis,
		bulletList(r.DomainRequirements),
		bulletList(r.DomainConcerns),
		r.PriorityLevel,
	))
}

func formatUXAnalysis(r *domain.UXAnalysisResult) string {
	return strings.TrimSpace(fmt.Sprintf(`UX Analysis: %s

UI Requirements:
%s

User Experience Concerns:
%s

Accessibility Requirements:
%s`,
		r.UXAnalysis,
		bulletList(r.UIRequirements),
		bulletList(r.UserExperienceConcerns),
		bulletList(r.AccessibilityRequirements),
	))
}

func formatTechnicalAnalysis(r *domain.TechnicalAnalysisResult) string {
	return strings.TrimSpace(fmt.Sprintf(`Technical Analysis: %s

Technical Requirements:
%s

Technical Concerns:
%s

Scalability Considerations:
%s`,
		r.TechnicalAnalysis,
		bulletList(r.TechnicalRequirements),
		bulletList(r.TechnicalConcerns),
		bulletList(r.ScalabilityConsiderations),
	))
}

func formatRevenueAnalysis(r *domain.RevenueAnalysisResult) string {
	return strings.TrimSpace(fmt.Sprintf(`Revenue Analysis: %s

Revenue Requirements:
%s

Revenue Concerns:
%s

Monetization Strategies:
%s

Pricing Considerations:
%s`,
		r.RevenueAnalysis,
		bulletList(r.RevenueRequirements),
		bulletList(r.RevenueConcerns),
		bulletList(r.MonetizationStrategies),
		bulletList(r.PricingConsiderations),
	))
}

func formatDebateResolution(r *domain.DebateAnalysisResult) string {
	return strings.TrimSpace(fmt.Sprintf(`Debate Analysis:
- Category: %s
- Routing Decision: %s
- Urgency Level: %s
- Estimated Resolution Time: %s`,
		r.DebateCategory,
		r.RoutingDecision,
		r.UrgencyLevel,
		r.EstimatedResolutionTime,
	))
}

func formatModeratorAggregation(r *domain.ModeratorAggregationResult) string {
	conflict := r.ConflictResolution
	if conflict == "" {
		conflict = "No conflicts identified"
	}
	return strings.TrimSpace(fmt.Sprintf(`Aggregated Requirements:
%s

Conflict Resolution:
%s

Final Recommendations:
%s

Implementation Priority:
%s`,
		bulletList(r.AggregatedRequirements),
		conflict,
		bulletList(r.FinalRecommendations),
		bulletList(r.ImplementationPriority),
	))
}
