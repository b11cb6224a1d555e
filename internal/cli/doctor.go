package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/saherflow/saher/internal/api"
	"github.com/saherflow/saher/internal/doctor"
	"github.com/saherflow/saher/internal/logger"
	"github.com/saherflow/saher/internal/ui"
)

// DoctorOutput is the --json payload of the doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

// doctorCommand runs every diagnostic and reports to w.
func doctorCommand(w io.Writer, jsonOut bool) error {
	// Load errors are reported by the schema check.
	cfg, err := loadConfig()
	if err != nil {
		cfg = nil
	}

	var client doctor.DeviceLister
	if cfg != nil {
		client = api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger.Default())
	}

	p := newProgress("Running checks", jsonOut)
	p.Start()
	results := doctor.RunAllParallel(doctor.NewChecks(cfgFile, cfg, client))
	p.Success()

	if jsonOut {
		return WriteJSONSuccess(w, buildDoctorOutput(results))
	}
	renderDoctorText(w, results)
	return nil
}

func buildDoctorOutput(results []doctor.CheckResult) DoctorOutput {
	order, grouped := doctor.GroupByCategory(results)
	out := DoctorOutput{Categories: make([]CategoryOutput, 0, len(order))}
	for _, cat := range order {
		out.Categories = append(out.Categories, CategoryOutput{Name: cat, Results: grouped[cat]})
	}

	counts := doctor.CountByStatus(results)
	out.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		AllClear: !doctor.HasIssues(results),
	}
	return out
}

var (
	doctorSuccessStyle = lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	doctorErrorStyle   = lipgloss.NewStyle().Foreground(ui.ColorError)
	doctorWarnStyle    = lipgloss.NewStyle().Foreground(ui.ColorWarning)
	doctorMutedStyle   = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	doctorHeaderStyle  = lipgloss.NewStyle().Bold(true)
)

func renderDoctorText(w io.Writer, results []doctor.CheckResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, doctorHeaderStyle.Render("Saher Diagnostic Report"))
	fmt.Fprintln(w)

	order, grouped := doctor.GroupByCategory(results)
	for _, cat := range order {
		fmt.Fprintln(w, doctorHeaderStyle.Render(cat))
		for _, r := range grouped[cat] {
			renderCheckResult(w, r)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintln(w)

	symbol := doctorSuccessStyle.Render(ui.SymbolSuccess)
	if doctor.HasIssues(results) {
		symbol = doctorErrorStyle.Render(ui.SymbolFail)
	}
	fmt.Fprintf(w, "%s %s\n\n", symbol, doctor.Summary(results))
}

func renderCheckResult(w io.Writer, r doctor.CheckResult) {
	symbol, style := ui.SymbolComplete, doctorSuccessStyle
	switch r.Status {
	case doctor.StatusWarn:
		style = doctorWarnStyle
	case doctor.StatusFail:
		symbol, style = ui.SymbolFail, doctorErrorStyle
	}

	fmt.Fprintf(w, "  %s %s\n", style.Render(symbol), r.Message)
	if r.Suggestion != "" && r.Status != doctor.StatusPass {
		for _, line := range strings.Split(r.Suggestion, "\n") {
			fmt.Fprintf(w, "    %s\n", doctorMutedStyle.Render(line))
		}
	}
}
