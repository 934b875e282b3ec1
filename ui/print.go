package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Out is where the print helpers write. Tests swap it for a buffer.
var Out io.Writer = os.Stdout

var (
	debugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	greenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Debugf prints a [DEBUG] line when enabled.
func Debugf(enabled bool, format string, a ...interface{}) {
	if enabled {
		fmt.Fprint(Out, debugStyle.Render(fmt.Sprintf("[DEBUG] "+format, a...)))
	}
}

func Greenf(format string, a ...interface{}) {
	fmt.Fprint(Out, greenStyle.Render(fmt.Sprintf(format, a...)))
}

func Warningf(format string, a ...interface{}) {
	fmt.Fprint(Out, warningStyle.Render(fmt.Sprintf(format, a...)))
}

func ClearScreen() {
	fmt.Fprint(Out, "\033[2J\033[1;1H")
}
