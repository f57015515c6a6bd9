package db

import (
	"database/sql"

	"github.com/dori/moodlist/internal/emotion"
	"github.com/dori/moodlist/internal/model"
)

// InsertPlan stores a generated plan in one transaction and returns the
// root task id. Every row shares the same createdAt so the plan lands in a
// single date group.
func (db *DB) InsertPlan(p model.Plan) (int64, error) {
	created := db.timestamp()
	var rootID int64

	err := db.Transaction(func(tx *sql.Tx) error {
		var err error
		rootID, err = db.insertTask(tx, NewTask{
			Text:              p.Title,
			Level:             0,
			CurrentEmotion:    emotion.FormatList(p.CurrentEmotion),
			CompletionEmotion: emotion.FormatList(p.CompletionEmotion),
			TotalTimeEstimate: p.TotalTimeEstimate,
			CreatedAt:         created,
		})
		if err != nil {
			return err
		}

		for _, sub := range p.SubTasks {
			parent := rootID
			subID, err := db.insertTask(tx, NewTask{
				ParentID:          &parent,
				Text:              sub.Title,
				Level:             1,
				TotalTimeEstimate: sub.TotalTimeEstimate,
				CreatedAt:         created,
			})
			if err != nil {
				return err
			}

			for _, step := range sub.Steps {
				stepParent := subID
				if _, err := db.insertTask(tx, NewTask{
					ParentID:  &stepParent,
					Text:      step,
					Level:     2,
					CreatedAt: created,
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rootID, nil
}
