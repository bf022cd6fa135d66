package gemini

import "google.golang.org/genai"

// Response schemas handed to the API. Enum values match the string ids
// used on domain state.

func stringField(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func stringList(desc string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: desc,
		Items:       &genai.Schema{Type: genai.TypeString},
	}
}

func enumField(desc string, values ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc, Enum: values}
}

var specialistAgents = []string{
	"domain_expert", "ux_ui_specialist", "technical_architect",
	"revenue_model_analyst", "moderator",
}

var supervisorSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"next_agent": enumField("The agent that should act next",
			append([]string{"supervisor"}, specialistAgents...)...),
		"decision":         enumField("The workflow verdict", "continue", "end", "debate"),
		"reasoning":        stringField("Why this agent and verdict"),
		"confidence_score": {Type: genai.TypeNumber, Description: "Confidence from 0.0 to 1.0"},
		"estimated_completion_steps": {
			Type:        genai.TypeInteger,
			Description: "Estimated steps until the analysis completes",
		},
	},
	Required: []string{"next_agent", "decision", "reasoning"},
}

var classificationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"query_type": enumField("The specialist category",
			"domain", "ux_ui", "technical", "revenue", "general"),
		"confidence_score": {Type: genai.TypeNumber, Description: "Confidence from 0.0 to 1.0"},
		"reasoning":        stringField("Why the query fits the category"),
	},
	Required: []string{"query_type", "confidence_score", "reasoning"},
}

var domainSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"domain_analysis":     stringField("Business and domain perspective analysis"),
		"domain_requirements": stringList("Domain-specific requirements"),
		"domain_concerns":     stringList("Domain-related risks and concerns"),
		"priority_level":      stringField("Overall priority, e.g. high, medium, low"),
	},
	Required: []string{"domain_analysis", "domain_requirements", "domain_concerns", "priority_level"},
}

var uxSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"ux_analysis":                stringField("User-centered analysis"),
		"ui_requirements":            stringList("Interface requirements"),
		"user_experience_concerns":   stringList("Experience risks and concerns"),
		"accessibility_requirements": stringList("Accessibility requirements"),
	},
	Required: []string{"ux_analysis", "ui_requirements", "user_experience_concerns", "accessibility_requirements"},
}

var technicalSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"technical_analysis":         stringField("Architecture perspective analysis"),
		"technical_requirements":     stringList("Technical requirements"),
		"technical_concerns":         stringList("Technical risks and concerns"),
		"scalability_considerations": stringList("Scalability considerations"),
	},
	Required: []string{"technical_analysis", "technical_requirements", "technical_concerns", "scalability_considerations"},
}

var revenueSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"revenue_analysis":        stringField("Revenue and monetization analysis"),
		"revenue_requirements":    stringList("Revenue requirements"),
		"revenue_concerns":        stringList("Revenue risks and concerns"),
		"monetization_strategies": stringList("Candidate monetization strategies"),
		"pricing_considerations":  stringList("Pricing considerations"),
	},
	Required: []string{"revenue_analysis", "revenue_requirements", "revenue_concerns", "monetization_strategies", "pricing_considerations"},
}

var debateSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"debate_category":           enumField("The specialist to resolve the debate", specialistAgents...),
		"routing_decision":          stringField("Why this specialist"),
		"urgency_level":             stringField("Urgency, e.g. high, medium, low"),
		"estimated_resolution_time": stringField("Estimated resolution time"),
	},
	Required: []string{"debate_category", "routing_decision", "urgency_level", "estimated_resolution_time"},
}

var moderatorSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"aggregated_requirements": stringList("Consolidated requirements"),
		"conflict_resolution":     stringField("How conflicting recommendations were resolved"),
		"final_recommendations":   stringList("Unified recommendations"),
		"implementation_priority": stringList("Suggested implementation order"),
	},
	Required: []string{"aggregated_requirements", "final_recommendations", "implementation_priority"},
}
