package models

import "time"

// SelectedClass references a Class from a slot, as submitted by the trainer dashboard.
type SelectedClass struct {
	Value string `json:"value" firestore:"value"`
	Label string `json:"label" firestore:"label"`
}

// Slot is a bookable time unit offered by a trainer.
type Slot struct {
	ID              string          `json:"id" firestore:"-"`
	TrainerID       string          `json:"trainerId" firestore:"trainerId"`
	TrainerName     string          `json:"trainerName,omitempty" firestore:"trainerName,omitempty"`
	SlotName        string          `json:"slotName" firestore:"slotName"`
	SlotTime        string          `json:"slotTime,omitempty" firestore:"slotTime,omitempty"`
	Days            []string        `json:"days,omitempty" firestore:"days,omitempty"`
	SelectedClasses []SelectedClass `json:"selectedClasses" firestore:"selectedClasses"`
	CreatedAt       time.Time       `json:"createdAt" firestore:"createdAt"`
}

// ClassIDs returns the IDs of the classes the slot is linked to, without duplicates.
func (s *Slot) ClassIDs() []string {
	seen := make(map[string]struct{}, len(s.SelectedClasses))
	ids := make([]string, 0, len(s.SelectedClasses))
	for _, c := range s.SelectedClasses {
		if c.Value == "" {
			continue
		}
		if _, ok := seen[c.Value]; ok {
			continue
		}
		seen[c.Value] = struct{}{}
		ids = append(ids, c.Value)
	}
	return ids
}
