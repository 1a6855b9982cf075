package quotes

import (
	"context"
	"errors"
	"fmt"
)

// Step enumerates the wizard's strictly ordered states.
type Step int

const (
	StepPersonalInfo Step = iota
	StepProjectDetails
	StepBudgetInfo
	StepReview
	StepThankYou
)

func (s Step) String() string {
	switch s {
	case StepPersonalInfo:
		return "personal-info"
	case StepProjectDetails:
		return "project-details"
	case StepBudgetInfo:
		return "budget-info"
	case StepReview:
		return "review"
	case StepThankYou:
		return "thank-you"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Event enumerates wizard transitions.
type Event int

const (
	EventAdvance Event = iota
	EventRetreat
	EventJump
	EventSubmit
	EventReset
)

// transitions is the explicit state machine table: which event applies at
// which step, and where it lands. EventJump and EventReset are guarded
// separately since their targets are not fixed.
var transitions = map[Step]map[Event]Step{
	StepPersonalInfo:   {EventAdvance: StepProjectDetails},
	StepProjectDetails: {EventAdvance: StepBudgetInfo, EventRetreat: StepPersonalInfo},
	StepBudgetInfo:     {EventAdvance: StepReview, EventRetreat: StepProjectDetails},
	StepReview:         {EventSubmit: StepThankYou, EventRetreat: StepBudgetInfo},
	StepThankYou:       {},
}

var (
	// ErrStepInvalid reports a step payload that failed its schema.
	ErrStepInvalid = errors.New("step validation failed")
	// ErrWrongPayload reports a payload that does not belong to the
	// current step.
	ErrWrongPayload = errors.New("payload does not match current step")
)

// StepError carries the per-field messages of a failed step validation.
type StepError struct {
	Step   Step
	Fields map[string]string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %d invalid fields", e.Step, len(e.Fields))
}

func (e *StepError) Unwrap() error {
	return ErrStepInvalid
}

// Submitter posts the accumulated payload to the server.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (id string, err error)
}

// Wizard drives a visitor through the quote-request steps, accumulating
// validated data until submission.
type Wizard struct {
	step      Step
	completed map[Step]bool
	data      Submission

	confirmed   bool
	submitting  bool
	submitted   bool
	submittedID string
	lastError   string
}

func NewWizard() *Wizard {
	return &Wizard{completed: make(map[Step]bool)}
}

// Step returns the wizard's current state.
func (w *Wizard) Step() Step {
	return w.step
}

// Data returns the accumulated payload.
func (w *Wizard) Data() Submission {
	return w.data
}

// Submitting reports whether a submission round trip is in flight.
func (w *Wizard) Submitting() bool {
	return w.submitting
}

// Submitted reports whether this cycle completed.
func (w *Wizard) Submitted() bool {
	return w.submitted
}

// SubmittedID returns the server-assigned id of a successful submission.
func (w *Wizard) SubmittedID() string {
	return w.submittedID
}

// LastError returns the message of the last failed submission, if any.
func (w *Wizard) LastError() string {
	return w.lastError
}

// SetConfirmed records the review step's confirmation checkbox.
func (w *Wizard) SetConfirmed(confirmed bool) {
	w.confirmed = confirmed
}

// Advance validates the payload against the current step's schema and, on
// success, merges it and moves one step forward. The merge is additive:
// each step only writes its own fields. Advancing past the last payload
// step is a clamped no-op.
func (w *Wizard) Advance(payload any) error {
	next, ok := transitions[w.step][EventAdvance]
	if !ok {
		return nil
	}

	switch w.step {
	case StepPersonalInfo:
		info, ok := payload.(PersonalInfo)
		if !ok {
			return ErrWrongPayload
		}
		if fields := ValidatePersonalInfo(info); fields != nil {
			return &StepError{Step: w.step, Fields: fields}
		}
		w.data.PersonalInfo = info
	case StepProjectDetails:
		details, ok := payload.(ProjectDetails)
		if !ok {
			return ErrWrongPayload
		}
		if fields := ValidateProjectDetails(details); fields != nil {
			return &StepError{Step: w.step, Fields: fields}
		}
		w.data.ProjectDetails = details
	case StepBudgetInfo:
		info, ok := payload.(BudgetInfo)
		if !ok {
			return ErrWrongPayload
		}
		if fields := ValidateBudgetInfo(info); fields != nil {
			return &StepError{Step: w.step, Fields: fields}
		}
		w.data.BudgetInfo = info
	}

	w.completed[w.step] = true
	w.step = next
	return nil
}

// Retreat moves one step back, clamped at the first step.
func (w *Wizard) Retreat() {
	if prev, ok := transitions[w.step][EventRetreat]; ok {
		w.step = prev
	}
}

// JumpTo moves directly to a step from the progress indicator. Only an
// already-completed step (strictly before the current one) or the immediate
// next step after a completed current step is reachable; anything further
// is rejected silently.
func (w *Wizard) JumpTo(target Step) bool {
	if target < StepPersonalInfo || target > StepThankYou {
		return false
	}
	if target < w.step {
		w.step = target
		return true
	}
	if target == w.step+1 && w.completed[w.step] {
		w.step = target
		return true
	}
	return false
}

// Submit posts the accumulated payload. It is only reachable from the
// review step and only after the confirmation flag is set; otherwise it is
// a no-op and the submitter is never called. On failure the wizard stays on
// review with the error captured for display.
func (w *Wizard) Submit(ctx context.Context, submitter Submitter) error {
	if _, ok := transitions[w.step][EventSubmit]; !ok {
		return nil
	}
	if !w.confirmed {
		return nil
	}

	w.submitting = true
	w.lastError = ""

	id, err := submitter.Submit(ctx, w.data)
	w.submitting = false
	if err != nil {
		w.lastError = err.Error()
		return err
	}

	w.submittedID = id
	w.submitted = true
	w.step = transitions[StepReview][EventSubmit]
	return nil
}

// Reset clears the accumulated payload and returns to the first step.
// Callable from anywhere, including "submit another" on the final step.
func (w *Wizard) Reset() {
	w.step = StepPersonalInfo
	w.completed = make(map[Step]bool)
	w.data = Submission{}
	w.confirmed = false
	w.submitting = false
	w.submitted = false
	w.submittedID = ""
	w.lastError = ""
}
