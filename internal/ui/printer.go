package ui

import (
	"fmt"
	"io"
)

// Printer writes status lines for CLI commands.
type Printer struct {
	out    io.Writer
	styles Styles
}

// NewPrinter creates a printer; colors are used only on interactive terminals.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, styles: GetStyles(!Interactive(out) || DetectNoColor())}
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (p *Printer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(p.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(p.out, "   %s\n", msg)
	}
}

// Success prints a success message with checkmark.
func (p *Printer) Success(msg string) {
	p.Status("✅", p.styles.Success.Render(msg))
}

// Successf prints a formatted success message.
func (p *Printer) Successf(format string, args ...any) {
	p.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (p *Printer) Warning(msg string) {
	p.Status("⚠️ ", p.styles.Warning.Render(msg))
}

// Warningf prints a formatted warning message.
func (p *Printer) Warningf(format string, args ...any) {
	p.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (p *Printer) Error(msg string) {
	p.Status("❌", p.styles.Error.Render(msg))
}

// Info prints an indented secondary line.
func (p *Printer) Info(msg string) {
	p.Status("", p.styles.Label.Render(msg))
}

// Infof prints a formatted secondary line.
func (p *Printer) Infof(format string, args ...any) {
	p.Info(fmt.Sprintf(format, args...))
}
