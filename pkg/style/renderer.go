package style

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/logtrim/pkg/errors"
)

// Renderer renders run results for the terminal, degrading to plain
// text when output is piped, NO_COLOR is set, or colors are unsupported.
type Renderer struct {
	format Format
}

// NewRenderer creates a renderer for the given output stream.
func NewRenderer(output *os.File) *Renderer {
	return &Renderer{format: DetectFormat(output)}
}

// Bold returns the string formatted as bold using pterm
func (r *Renderer) Bold(s string) string {
	if r.format != FormatTerminal {
		return s
	}
	return pterm.Bold.Sprint(s)
}

func (r *Renderer) styled(s lipgloss.Style, text string) string {
	if r.format != FormatTerminal {
		return text
	}
	return s.Render(text)
}

// RenderValidationFailure renders the hard-failure report of validate
// mode: the new messages, their count, and how to exempt them.
func (r *Renderer) RenderValidationFailure(logPath, storePath, suggestionPath string, residual []string) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(r.styled(ErrorStyle, "Error: Found new messages!"))
	b.WriteString("\n\n")
	for _, line := range residual {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(r.styled(ErrorStyle,
		fmt.Sprintf("Error: found %d new messages in %s.", len(residual), logPath)))
	b.WriteString("\n\n")
	b.WriteString("Please fix or suppress these new messages in the tool that generates them.\n")
	b.WriteString("If you cannot, then you can exempt them by doing:\n\n")
	b.WriteString(fmt.Sprintf("  1. %s\n", r.Bold(fmt.Sprintf("cp %s %s", suggestionPath, storePath))))
	b.WriteString(fmt.Sprintf("  2. %s\n\n", r.Bold("modify the new lines to be appropriately generalized")))
	b.WriteString(r.styled(MutedStyle,
		"Note that every exemption added to the store makes matching a little slower\n"+
			"than fixing or suppressing the message where it is generated."))
	b.WriteString("\n")
	return b.String()
}

// RenderUpdateSummary reports the outcome of update mode.
func (r *Renderer) RenderUpdateSummary(storePath string, updated bool) string {
	if !updated {
		return r.styled(SuccessStyle, "No new messages; exemption store left unchanged.")
	}
	return r.styled(SuccessStyle, fmt.Sprintf("Updated exemptions in %s", storePath))
}

// RenderError renders a fatal error with its code, enumerating the
// matching patterns when the error is an ambiguous-exemption
// configuration error.
func (r *Renderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	if r.format == FormatTerminal {
		b.WriteString(fmt.Sprintf("%s Error [%s]: %s",
			pterm.Error.Prefix.Text,
			pterm.Error.MessageStyle.Sprint(errors.GetErrorCode(err)),
			err.Error()))
	} else {
		b.WriteString(fmt.Sprintf("Error [%s]: %s", errors.GetErrorCode(err), err.Error()))
	}
	if errors.IsErrorCode(err, errors.ErrAmbiguousMatch) {
		details := errors.GetErrorDetails(err)
		if line, ok := details["line"].(string); ok {
			b.WriteString(fmt.Sprintf("\n\nLine: %q\n", line))
		}
		if patterns, ok := details["patterns"].([]string); ok {
			b.WriteString("\n")
			b.WriteString(r.styled(WarningStyle, fmt.Sprintf("%d matching exemptions:", len(patterns))))
			b.WriteString("\n")
			for _, p := range patterns {
				b.WriteString(fmt.Sprintf("  %q\n", p))
			}
		}
	}
	return b.String()
}
