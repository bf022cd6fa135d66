package domain

// Structured provider outputs. These mirror the JSON schemas the provider
// backends request from the model; the runtime formats them into the text
// blocks stored on State.

// Classification is the classify node's provider output.
type Classification struct {
	QueryType       QueryType `json:"query_type" mapstructure:"query_type"`
	ConfidenceScore float64   `json:"confidence_score" mapstructure:"confidence_score"`
	Reasoning       string    `json:"reasoning" mapstructure:"reasoning"`
}

// SupervisorAnalysis is the oracle's decision payload. The engine uses
// only NextAgent and Decision for control flow; ConfidenceScore and
// EstimatedCompletionSteps are informational.
type SupervisorAnalysis struct {
	NextAgent                AgentType `json:"next_agent" mapstructure:"next_agent"`
	Decision                 Decision  `json:"decision" mapstructure:"decision"`
	Reasoning                string    `json:"reasoning" mapstructure:"reasoning"`
	ConfidenceScore          float64   `json:"confidence_score" mapstructure:"confidence_score"`
	EstimatedCompletionSteps int       `json:"estimated_completion_steps" mapstructure:"estimated_completion_steps"`
}

// DomainAnalysisResult is the domain expert's structured output.
type DomainAnalysisResult struct {
	DomainAnalysis     string   `json:"domain_analysis" mapstructure:"domain_analysis"`
	DomainRequirements []string `json:"domain_requirements" mapstructure:"domain_requirements"`
	DomainConcerns     []string `json:"domain_concerns" mapstructure:"domain_concerns"`
	PriorityLevel      string   `json:"priority_level" mapstructure:"priority_level"`
}

// UXAnalysisResult is the UX/UI specialist's structured output.
type UXAnalysisResult struct {
	UXAnalysis                string   `json:"ux_analysis" mapstructure:"ux_analysis"`
	UIRequirements            []string `json:"ui_requirements" mapstructure:"ui_requirements"`
	UserExperienceConcerns    []string `json:"user_experience_concerns" mapstructure:"user_experience_concerns"`
	AccessibilityRequirements []string `json:"accessibility_requirements" mapstructure:"accessibility_requirements"`
}

// TechnicalAnalysisResult is the technical architect's structured output.
type TechnicalAnalysisResult struct {
	TechnicalAnalysis         string   `json:"technical_analysis" mapstructure:"technical_analysis"`
	TechnicalRequirements     []string `json:"technical_requirements" mapstructure:"technical_requirements"`
	TechnicalConcerns         []string `json:"technical_concerns" mapstructure:"technical_concerns"`
	ScalabilityConsiderations []string `json:"scalability_considerations" mapstructure:"scalability_considerations"`
}

// RevenueAnalysisResult is the revenue model analyst's structured output.
type RevenueAnalysisResult struct {
	RevenueAnalysis        string   `json:"revenue_analysis" mapstructure:"revenue_analysis"`
	RevenueRequirements    []string `json:"revenue_requirements" mapstructure:"revenue_requirements"`
	RevenueConcerns        []string `json:"revenue_concerns" mapstructure:"revenue_concerns"`
	MonetizationStrategies []string `json:"monetization_strategies" mapstructure:"monetization_strategies"`
	PricingConsiderations  []string `json:"pricing_considerations" mapstructure:"pricing_considerations"`
}

// DebateAnalysisResult is the debate analyzer's structured output.
type DebateAnalysisResult struct {
	DebateCategory          DebateCategory `json:"debate_category" mapstructure:"debate_category"`
	RoutingDecision         string         `json:"routing_decision" mapstructure:"routing_decision"`
	UrgencyLevel            string         `json:"urgency_level" mapstructure:"urgency_level"`
	EstimatedResolutionTime string         `json:"estimated_resolution_time" mapstructure:"estimated_resolution_time"`
}

// ModeratorAggregationResult is the moderator's structured output.
type ModeratorAggregationResult struct {
	AggregatedRequirements []string `json:"aggregated_requirements" mapstructure:"aggregated_requirements"`
	ConflictResolution     string   `json:"conflict_resolution,omitempty" mapstructure:"conflict_resolution"`
	FinalRecommendations   []string `json:"final_recommendations" mapstructure:"final_recommendations"`
	ImplementationPriority []string `json:"implementation_priority" mapstructure:"implementation_priority"`
}
