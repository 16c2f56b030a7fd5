package approval

// Step is one named sign-off stage of a leave request.
type Step string

const (
	StepTeamLead   Step = "TEAM_LEAD"
	StepHR         Step = "HR"
	StepManagement Step = "MANAGEMENT"
)

// ManagementThresholdDays is the longest request HR may close on its own.
const ManagementThresholdDays = 4

// Snapshot is the part of a request the policy looks at.
type Snapshot struct {
	HasTeamLead   bool
	DaysRequested int
}

type StepResolver interface {
	ResolveSteps(s Snapshot) []Step
}

type defaultResolver struct{}

// DefaultResolver applies the organisation's fixed rule set.
var DefaultResolver StepResolver = defaultResolver{}

func (defaultResolver) ResolveSteps(s Snapshot) []Step {
	return ResolveSteps(s)
}

// ResolveSteps returns the ordered steps a request must pass. A requester
// without a team lead skips that step entirely.
func ResolveSteps(s Snapshot) []Step {
	steps := make([]Step, 0, 3)
	if s.HasTeamLead {
		steps = append(steps, StepTeamLead)
	}
	steps = append(steps, StepHR)
	if s.DaysRequested > ManagementThresholdDays {
		steps = append(steps, StepManagement)
	}
	return steps
}

// RequiresManagement reports whether MANAGEMENT is part of steps.
func RequiresManagement(steps []Step) bool {
	for _, st := range steps {
		if st == StepManagement {
			return true
		}
	}
	return false
}
