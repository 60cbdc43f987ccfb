package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/tui/theme"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	t := theme.DefaultTheme
	prefix := t.Error.Render("✗")

	deckErr, isDeck := errors.As(err)
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "%s Configuration not found: %v\n", prefix, err)

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(h.Out, "%s Invalid configuration: %v\n", prefix, err)
		fmt.Fprintf(h.Out, "Run 'deck config-layers' to see where each setting comes from.\n")

	case errors.ErrCodeStateCorrupted, errors.ErrCodeMigrationFailed:
		fmt.Fprintf(h.Out, "%s Saved state could not be loaded: %v\n", prefix, err)
		fmt.Fprintf(h.Out, "Your data was left untouched. Inspect it with 'deck state show --raw', or reset with 'deck state clear --force'.\n")

	case errors.ErrCodeEntityNotFound:
		if isDeck {
			fmt.Fprintf(h.Out, "%s No %v named '%v'\n", prefix, deckErr.Details["kind"], deckErr.Details["id"])
		}

	case errors.ErrCodeInvalidInput:
		fmt.Fprintf(h.Out, "%s %s\n", prefix, deckErr.Message)

	default:
		fmt.Fprintf(h.Out, "%s Error: %v\n", prefix, err)
	}

	if h.Verbose && isDeck {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", deckErr.ToJSON())
	}
	return err
}
