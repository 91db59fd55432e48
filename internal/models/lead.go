package models

import "time"

// Dialog states for the lead-capture and qualification flows.
const (
	DialogStateClosed     = "closed"
	DialogStateOpen       = "open"
	DialogStateSubmitting = "submitting"
)

// CaptureLeadRequest represents a lead-capture form submission.
// Validation is intentionally not done with binding tags: the form contract
// collects every field error in one response instead of failing on the
// first, and an empty name follows the same path as an invalid one.
type CaptureLeadRequest struct {
	FullName        string `json:"fullName"`
	ReceiveEmail    bool   `json:"receiveEmail"`
	ReceiveWhatsapp bool   `json:"receiveWhatsapp"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	RedirectLink    string `json:"redirectLink"`
	RedirectTarget  string `json:"redirectTarget"`
}

// DraftRequest carries partial contact values saved while the visitor types
type DraftRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// FieldError attaches a message to a specific form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Redirect tells the page where to send the visitor after a successful
// submission. WindowFeatures is non-empty only for new-tab targets.
type Redirect struct {
	Link           string `json:"link"`
	Target         string `json:"target"`
	WindowFeatures string `json:"window_features,omitempty"`
}

// CaptureLeadResponse is the outcome of a lead-capture submission
type CaptureLeadResponse struct {
	Success     bool         `json:"success"`
	State       string       `json:"state"`
	FieldErrors []FieldError `json:"field_errors,omitempty"`
	Alert       string       `json:"alert,omitempty"`
	Error       string       `json:"error,omitempty"`
	Redirect    *Redirect    `json:"redirect,omitempty"`
}

// QualificationRequest carries the visitor's self-classification
type QualificationRequest struct {
	UserType string `json:"userType" binding:"required,oneof=hobby empreendedor"`
}

// QualificationResponse is the outcome of a qualification submission
type QualificationResponse struct {
	Success bool   `json:"success"`
	State   string `json:"state"`
	Alert   string `json:"alert,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Prefill carries persisted contact values back into a freshly opened form
type Prefill struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// DialogStateResponse reports the dialog state after open/close/draft calls
type DialogStateResponse struct {
	State   string   `json:"state"`
	Prefill *Prefill `json:"prefill,omitempty"`
}

// ContactRecord is the persisted contact snapshot for a visitor. It mirrors
// what the capture form learned: the preferred contact value, its channel,
// and the split email/phone fields when both were provided.
type ContactRecord struct {
	Contact     string `json:"contact"`
	ContactType string `json:"contactType"`
	UserType    string `json:"userType"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Submission is one journaled lead submission, kept for operational review
type Submission struct {
	ID          int64     `json:"id"`
	VisitorID   string    `json:"visitor_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	ContactType string    `json:"contact_type"`
	UserType    string    `json:"user_type"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Submission statuses recorded in the journal.
const (
	SubmissionStatusCreated   = "created"
	SubmissionStatusDuplicate = "duplicate"
	SubmissionStatusFailed    = "failed"
	SubmissionStatusQualified = "qualified"
)
