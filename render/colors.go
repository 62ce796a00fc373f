package render

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes
const (
	Reset     = "\033[0m"
	Bold      = "\033[1m"
	Dim       = "\033[2m"
	White     = "\033[37m"
	Cyan      = "\033[36m"
	Yellow    = "\033[33m"
	Magenta   = "\033[35m"
	Green     = "\033[32m"
	Red       = "\033[31m"
	Blue      = "\033[34m"
	BoldWhite = "\033[1;37m"
	BoldRed   = "\033[1;31m"
	BoldBlue  = "\033[1;34m"
	DimWhite  = "\033[2;37m"
	BoldGreen = "\033[1;32m"
)

// CategoryColor returns the ANSI color used for a report category.
func CategoryColor(category string) string {
	switch category {
	case "Go":
		return Cyan
	case "Python", "JavaScript", "JavaScript Module", "TypeScript", "TypeScript Module", "SQL", "Database":
		return Yellow
	case "React", "TypeScript React":
		return BoldBlue
	case "HTML", "CSS", "SCSS", "Less", "PHP":
		return Magenta
	case "Markdown", "Text":
		return Green
	case "JSON", "YAML", "TOML", "XML", "INI", "ENV", "CSV", "Config", "Ruby":
		return Red
	case "Shell", "Batch", "PowerShell":
		return BoldWhite
	case "Java", "Kotlin", "Swift", "Rust":
		return BoldRed
	case "C", "C++", "Header", "C#":
		return BoldBlue
	case "External":
		return DimWhite
	case "Image", "SVG", "Icon", "Video", "Audio", "Font", "Archive":
		return Blue
	default:
		return White
	}
}

// ScoreColor maps a 0-100 health score to a traffic-light color.
func ScoreColor(score int) string {
	switch {
	case score >= 80:
		return BoldGreen
	case score >= 50:
		return Yellow
	default:
		return BoldRed
	}
}

// GetTerminalWidth returns terminal width or default
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// CenterString centers a string in the given width
func CenterString(s string, width int) string {
	if len(s) >= width {
		return s
	}
	leftPad := (width - len(s)) / 2
	rightPad := width - len(s) - leftPad
	return strings.Repeat(" ", leftPad) + s + strings.Repeat(" ", rightPad)
}

// formatSize renders a byte count with a binary unit suffix.
func formatSize(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%dB", size)
	}
}
