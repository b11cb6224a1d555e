package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the dashboard color palette.
type Theme struct {
	Name string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color

	Accent lipgloss.Color

	// Phase colors for flow-rate series.
	Oil   lipgloss.Color
	Gas   lipgloss.Color
	Water lipgloss.Color

	// Gauge slice colors.
	GVF       lipgloss.Color
	WLR       lipgloss.Color
	Remaining lipgloss.Color

	Healthy  lipgloss.Color
	Warning  lipgloss.Color
	Critical lipgloss.Color
}

// DarkTheme matches the control-room look: navy surfaces, indigo accent.
var DarkTheme = Theme{
	Name:          "dark",
	Background:    lipgloss.Color("#1E1F2E"),
	Surface:       lipgloss.Color("#2A2D47"),
	Border:        lipgloss.Color("#3B3F63"),
	TextPrimary:   lipgloss.Color("#FFFFFF"),
	TextSecondary: lipgloss.Color("#B4B6D0"),
	TextMuted:     lipgloss.Color("#6B6E8D"),
	Accent:        lipgloss.Color("#6366F1"),
	Oil:           lipgloss.Color("#F59E0B"),
	Gas:           lipgloss.Color("#EC4899"),
	Water:         lipgloss.Color("#22D3EE"),
	GVF:           lipgloss.Color("#FE44CC"),
	WLR:           lipgloss.Color("#22D3EE"),
	Remaining:     lipgloss.Color("#4D3DF7"),
	Healthy:       lipgloss.Color("#34D399"),
	Warning:       lipgloss.Color("#FBBF24"),
	Critical:      lipgloss.Color("#F87171"),
}

// LightTheme is used on light terminal backgrounds.
var LightTheme = Theme{
	Name:          "light",
	Background:    lipgloss.Color("#F8FAFC"),
	Surface:       lipgloss.Color("#FFFFFF"),
	Border:        lipgloss.Color("#CBD5E1"),
	TextPrimary:   lipgloss.Color("#0F172A"),
	TextSecondary: lipgloss.Color("#334155"),
	TextMuted:     lipgloss.Color("#64748B"),
	Accent:        lipgloss.Color("#4F46E5"),
	Oil:           lipgloss.Color("#D97706"),
	Gas:           lipgloss.Color("#DB2777"),
	Water:         lipgloss.Color("#0891B2"),
	GVF:           lipgloss.Color("#C026D3"),
	WLR:           lipgloss.Color("#0891B2"),
	Remaining:     lipgloss.Color("#A5B4FC"),
	Healthy:       lipgloss.Color("#059669"),
	Warning:       lipgloss.Color("#D97706"),
	Critical:      lipgloss.Color("#DC2626"),
}

// ResolveTheme maps a config theme name to a palette. "auto" asks the
// terminal for its background color.
func ResolveTheme(name string) Theme {
	switch strings.ToLower(name) {
	case "light":
		return LightTheme
	case "auto":
		if termenv.HasDarkBackground() {
			return DarkTheme
		}
		return LightTheme
	default:
		return DarkTheme
	}
}

func (t Theme) label() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.TextSecondary)
}

func (t Theme) muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.TextMuted)
}

func (t Theme) value() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
}

func (t Theme) border() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Border)
}

// SectionHeader renders the top border of a panel with the title on the
// left and value on the right.
// Format: ╭─ Title ─────────────────────── Value ╮
func (t Theme) SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2
	if value == "" {
		rightWidth = 1
	}

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}
	middle := strings.Repeat("─", fillWidth)

	borderStyle := t.border()
	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextSecondary)

	if value == "" {
		return borderStyle.Render("╭─ ") +
			titleStyle.Render(title) +
			borderStyle.Render(" "+middle+"╮")
	}
	return borderStyle.Render("╭─ ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+middle+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a panel.
// Format: ╰──────────────────────────────────╯
func (t Theme) SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	return t.border().Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders one content line padded between side borders.
// Content wider than the panel is truncated.
// Format: │ content                          │
func (t Theme) SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	innerWidth := width - 4
	if lipgloss.Width(content) > innerWidth {
		content = lipgloss.NewStyle().MaxWidth(innerWidth).Render(content)
	}

	padding := innerWidth - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	bar := t.border().Render("│")
	return bar + " " + content + strings.Repeat(" ", padding) + " " + bar
}

// Panel renders a bordered section around body, which may span multiple lines.
// Bodies shorter than minLines are padded with blank lines.
func (t Theme) Panel(title, value, body string, width, minLines int) string {
	lines := []string{t.SectionHeader(title, value, width)}

	var bodyLines []string
	if body != "" {
		bodyLines = strings.Split(body, "\n")
	}
	for len(bodyLines) < minLines {
		bodyLines = append(bodyLines, "")
	}
	for _, l := range bodyLines {
		lines = append(lines, t.SectionContentLine(l, width))
	}

	lines = append(lines, t.SectionFooter(width))
	return strings.Join(lines, "\n")
}

// statusColor picks a color for a device status string.
func (t Theme) statusColor(status string) lipgloss.Color {
	switch strings.ToLower(status) {
	case "online", "ok", "running":
		return t.Healthy
	case "warning", "degraded", "maintenance":
		return t.Warning
	case "offline", "alarm", "fault":
		return t.Critical
	default:
		return t.TextMuted
	}
}
