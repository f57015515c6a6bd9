package model

// Plan is a generated task breakdown: one root task, its sub-tasks and
// their steps. It is stored as levels 0, 1 and 2.
type Plan struct {
	Title             string    `json:"taskTitle"`
	CurrentEmotion    []string  `json:"currentEmotion,omitempty"`
	CompletionEmotion []string  `json:"completionEmotion,omitempty"`
	TotalTimeEstimate string    `json:"totalTimeEstimate,omitempty"`
	SubTasks          []SubTask `json:"subTasks"`
}

// SubTask is one level 1 entry of a Plan
type SubTask struct {
	Title             string   `json:"title"`
	TotalTimeEstimate string   `json:"totalTimeEstimate,omitempty"`
	Steps             []string `json:"steps"`
}

// Size returns how many tasks the plan expands to
func (p Plan) Size() int {
	n := 1
	for _, s := range p.SubTasks {
		n += 1 + len(s.Steps)
	}
	return n
}
