package ports

// Prompter asks the listener a yes/no question. Answers other than an
// unambiguous yes or no fail with domain.ErrValidation.
type Prompter interface {
	AskYesNo(prompt string) (bool, error)
}
