package view

import "go-microplastic-inspector/pkg/models"

// Display caps; the payload itself is not truncated
const (
	MaxSolutions    = 5
	MaxPhaseActions = 3
)

const NoRecommendationsPlaceholder = "No recommendations available"

// SolutionRow is one rendered prevention solution
type SolutionRow struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	Effectiveness      string `json:"effectiveness"`
	EffectivenessClass string `json:"effectiveness_class"`
	Cost               string `json:"cost"`
	Implementation     string `json:"implementation"`
}

// PhaseRow is one rendered implementation phase
type PhaseRow struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Actions []string `json:"actions"`
}

// RecommendationsPanel is the recommendations view model
type RecommendationsPanel struct {
	Placeholder   string        `json:"placeholder,omitempty"`
	PriorityLabel string        `json:"priority_label,omitempty"`
	PriorityColor Color         `json:"priority_color,omitempty"`
	Solutions     []SolutionRow `json:"solutions,omitempty"`
	HasPlan       bool          `json:"has_plan"`
	Phases        []PhaseRow    `json:"phases,omitempty"`
	EstimatedCost string        `json:"estimated_cost,omitempty"`
}

// BuildRecommendations maps the recommendations block to its panel
func BuildRecommendations(rec *models.Recommendations) RecommendationsPanel {
	if rec == nil || rec.PreventionSolutions == nil {
		return RecommendationsPanel{Placeholder: NoRecommendationsPlaceholder}
	}

	panel := RecommendationsPanel{
		PriorityLabel: rec.PriorityLevel,
		PriorityColor: PriorityColor(rec.PriorityLevel),
	}

	solutions := rec.PreventionSolutions
	if len(solutions) > MaxSolutions {
		solutions = solutions[:MaxSolutions]
	}
	for _, s := range solutions {
		panel.Solutions = append(panel.Solutions, SolutionRow{
			Title:              s.Solution,
			Description:        s.Description,
			Effectiveness:      s.Effectiveness,
			EffectivenessClass: EffectivenessClass(s.Effectiveness),
			Cost:               s.Cost,
			Implementation:     s.Implementation,
		})
	}

	if rec.ImplementationPlan != nil {
		panel.HasPlan = true
		for _, e := range rec.ImplementationPlan.Entries() {
			if len(e.Value.Actions) == 0 {
				continue
			}
			actions := e.Value.Actions
			if len(actions) > MaxPhaseActions {
				actions = actions[:MaxPhaseActions]
			}
			row := PhaseRow{Key: e.Key, Name: e.Value.Name, Actions: make([]string, 0, len(actions))}
			for _, a := range actions {
				row.Actions = append(row.Actions, a.Solution)
			}
			panel.Phases = append(panel.Phases, row)
		}
	}

	if rec.CostEstimate != nil {
		panel.EstimatedCost = rec.CostEstimate.TotalEstimatedCost
	}
	return panel
}
