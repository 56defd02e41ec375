package services

// Confirmer gates destructive actions behind an explicit user decision.
// A false answer means the action is silently skipped.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool {
	return f(prompt)
}
