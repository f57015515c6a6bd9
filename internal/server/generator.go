package server

import (
	"context"
	"strings"

	"github.com/dori/moodlist/internal/model"
)

// Generator turns free text into a task plan
type Generator interface {
	Generate(ctx context.Context, prompt string) (model.Plan, error)
}

// MockGenerator builds a fixed plan shape from the first words of the prompt.
// It stands in when no generation backend is configured.
type MockGenerator struct{}

// Generate returns a plan titled after the first five words of prompt
func (MockGenerator) Generate(ctx context.Context, prompt string) (model.Plan, error) {
	if err := ctx.Err(); err != nil {
		return model.Plan{}, err
	}

	words := strings.Fields(prompt)
	if len(words) > 5 {
		words = words[:5]
	}
	title := strings.Join(words, " ") + " Task"

	return model.Plan{
		Title: title,
		SubTasks: []model.SubTask{
			{
				Title: "Plan " + title,
				Steps: []string{"Research requirements", "Define scope", "Set timeline"},
			},
			{
				Title: "Execute " + title,
				Steps: []string{"Complete first part", "Review progress", "Finish remaining items"},
			},
			{
				Title: "Review " + title,
				Steps: []string{"Check for errors", "Get feedback", "Make final adjustments"},
			},
		},
	}, nil
}
