package ticket

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxReasonLength bounds the optional rejection reason.
	MaxReasonLength = 1000

	// MaxCollaboratorInputLength bounds the add collaborator input.
	MaxCollaboratorInputLength = 100
)

// identityPattern matches a platform user ID: a run of 17 to 20 digits.
var identityPattern = regexp.MustCompile(`\d{17,20}`)

// RejectReason is the submission of the rejection form.
type RejectReason struct {
	Text string
}

// Validate trims the reason and checks its length. An empty reason is allowed.
func (r RejectReason) Validate() (RejectReason, error) {
	r.Text = strings.TrimSpace(r.Text)
	if utf8.RuneCountInString(r.Text) > MaxReasonLength {
		return r, &ValidationError{Field: "reason", Message: "❌ The reason is too long."}
	}
	return r, nil
}

// CollaboratorRequest is the submission of the add collaborator form.
type CollaboratorRequest struct {
	// Input is free text containing a user ID or mention.
	Input string
}

// Identity extracts the first user ID in the input.
func (r CollaboratorRequest) Identity() (string, error) {
	in := strings.TrimSpace(r.Input)
	if utf8.RuneCountInString(in) > MaxCollaboratorInputLength {
		return "", &ValidationError{Field: "collaborator", Message: "❌ The input is too long."}
	}

	id := identityPattern.FindString(in)
	if id == "" {
		return "", ErrMalformedIdentity
	}
	return id, nil
}
