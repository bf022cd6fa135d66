package domain

// AgentInfo describes one agent for catalog surfaces (API, CLI, tools).
type AgentInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Expertise   []string `json:"expertise"`
}

// AgentCatalog returns the supervisor and specialist roster keyed by agent id.
func AgentCatalog() map[string]AgentInfo {
	return map[string]AgentInfo{
		"supervisor": {
			Name:        "Supervisor (Orchestrator)",
			Description: "Coordinates and directs the workflow by deciding which specialist agent should act next",
			Expertise:   []string{"Workflow Orchestration", "Dynamic Routing", "Decision Making", "Agent Coordination", "State Management"},
		},
		"domain_expert": {
			Name:        "Domain Expert",
			Description: "Analyzes business logic, industry standards, compliance requirements, and domain-specific knowledge",
			Expertise:   []string{"Business Logic", "Industry Standards", "Compliance", "Market Analysis", "Domain Knowledge"},
		},
		"ux_ui_specialist": {
			Name:        "UX/UI Specialist",
			Description: "Analyzes user experience requirements, interface design, accessibility, and usability",
			Expertise:   []string{"User Experience", "Interface Design", "Accessibility", "Usability", "User Research"},
		},
		"technical_architect": {
			Name:        "Technical Architect",
			Description: "Analyzes technical architecture, system design, scalability, and implementation requirements",
			Expertise:   []string{"System Architecture", "Technology Stack", "Scalability", "Performance", "Security"},
		},
		"revenue_model_analyst": {
			Name:        "Revenue Model Analyst",
			Description: "Analyzes revenue models, monetization strategies, pricing, and financial sustainability",
			Expertise:   []string{"Revenue Models", "Monetization", "Pricing Strategies", "Business Models", "Financial Analysis"},
		},
		"moderator": {
			Name:        "Moderator/Aggregator",
			Description: "Aggregates feedback from specialists and resolves conflicts to create unified requirements",
			Expertise:   []string{"Conflict Resolution", "Requirements Aggregation", "Priority Setting", "Stakeholder Coordination"},
		},
		"debate_handler": {
			Name:        "Debate Handler",
			Description: "Analyzes and routes debates to appropriate specialists for efficient resolution",
			Expertise:   []string{"Debate Analysis", "Conflict Routing", "Efficiency Optimization", "Specialist Coordination"},
		},
	}
}
