package domain

import "time"

// Step identifies the dialog position a USSD session is waiting at.
type Step string

const (
	StepMain     Step = "MAIN"
	StepPickTown Step = "PICK_TOWN"
	StepPickZone Step = "PICK_ZONE"
	StepDropTown Step = "DROP_TOWN"
	StepDropZone Step = "DROP_ZONE"
	StepConfirm  Step = "CONFIRM"
	StepDone     Step = "DONE"
)

// SessionData accumulates the choices made during a booking dialog. Fields
// are set strictly in step order: PickupTown before PickupZone, and so on.
// The dialog engine never reads a field its current step has not yet set.
type SessionData struct {
	PickupTown     string    `json:"pickup_town,omitempty"`
	PickupZone     *Location `json:"pickup_zone,omitempty"`
	DropTown       string    `json:"drop_town,omitempty"`
	DropZone       *Location `json:"drop_zone,omitempty"`
	CandidateTowns []string  `json:"candidate_towns,omitempty"`
	Fare           string    `json:"fare,omitempty"`
}

// Session is the per-caller dialog state reconstructed on every gateway
// callback. It is mutated only by the dialog engine while the per-key lock
// for its ID is held.
type Session struct {
	ID          string      `json:"id"`
	Phone       string      `json:"phone"`
	Step        Step        `json:"step"`
	Page        int         `json:"page"`
	Data        SessionData `json:"data"`
	LastTouched time.Time   `json:"last_touched"`
}

// NewSession creates a session at the root menu.
func NewSession(id, phone string) *Session {
	return &Session{
		ID:          id,
		Phone:       phone,
		Step:        StepMain,
		Page:        1,
		LastTouched: time.Now(),
	}
}
