package quotes

import "time"

// Submission statuses. Transitions past "new" are managed by the office
// staff outside this system; the backend only ever writes "new".
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQuoted    = "quoted"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// PersonalInfo is the first wizard step.
type PersonalInfo struct {
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,ilphone"`
}

// ProjectDetails is the second wizard step.
type ProjectDetails struct {
	ProjectType  string   `json:"projectType" validate:"required,oneof=residential bathroom kitchen mosaic commercial other"`
	ProjectScope string   `json:"projectScope" validate:"required,min=10,max=500"`
	Timeline     string   `json:"timeline" validate:"required,oneof=immediate soon planning future"`
	Area         *float64 `json:"area,omitempty" validate:"omitempty,gt=0"`
	Address      string   `json:"address,omitempty" validate:"omitempty,min=5"`
}

// BudgetInfo is the third wizard step.
type BudgetInfo struct {
	Budget           string `json:"budget" validate:"required,oneof=under10k 10k-30k 30k-50k 50k-100k over100k unknown"`
	AdditionalInfo   string `json:"additionalInfo,omitempty" validate:"omitempty,max=1000"`
	ReferralSource   string `json:"referralSource" validate:"required,oneof=search social friend previous other"`
	PreferredContact string `json:"preferredContact" validate:"required,oneof=email phone whatsapp"`
	ReceiveUpdates   bool   `json:"receiveUpdates"`
}

// Submission is the combined payload the review step posts to the server.
type Submission struct {
	PersonalInfo
	ProjectDetails
	BudgetInfo
}

// Record is one persisted quote request: the submission plus the
// server-assigned fields.
type Record struct {
	ID string `json:"id"`
	Submission
	SubmittedAt time.Time `json:"submittedAt"`
	Status      string    `json:"status"`
	IPAddress   string    `json:"ipAddress"`
	UserAgent   string    `json:"userAgent"`
}

// LogEntry is the denormalized summary row appended to the running log.
type LogEntry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ProjectType string    `json:"projectType"`
	SubmittedAt time.Time `json:"submittedAt"`
	Status      string    `json:"status"`
}
