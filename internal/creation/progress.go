package creation

// Phase names the stage the sequence is in.
type Phase string

const (
	PhaseMain     Phase = "main"
	PhaseChildren Phase = "children"
)

// Progress is a read-only projection of the creation state, recomputed on
// demand so it can never diverge from the state itself.
type Progress struct {
	Current         int     `json:"current"`
	Total           int     `json:"total"`
	Percentage      float64 `json:"percentage"`
	CurrentTaskName string  `json:"current_task_name,omitempty"`
	Phase           Phase   `json:"phase"`
}

// Progress derives the current progress from the orchestrator state.
func (o *Orchestrator) Progress() Progress {
	return ProgressOf(o.State())
}

// ProgressOf derives progress from a state value.
func ProgressOf(s State) Progress {
	// CompletedTasks counts children only; the main task contributes its
	// own slot to the projection.
	completed := s.CompletedTasks
	if s.Main.Status == StatusSuccess {
		completed++
	}
	p := Progress{
		Current: completed,
		Total:   s.TotalTasks,
		Phase:   PhaseMain,
	}
	if s.TotalTasks > 0 {
		p.Percentage = float64(completed) / float64(s.TotalTasks) * 100
	}
	if s.Main.Status == StatusSuccess {
		p.Phase = PhaseChildren
	}

	switch {
	case s.Main.Status == StatusCreating:
		p.CurrentTaskName = s.Main.Data.Title
	default:
		for _, c := range s.Children {
			if c.Status == StatusCreating {
				p.CurrentTaskName = c.Data.Title
				break
			}
		}
	}
	return p
}
