package view

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/linecard/launch/pkg/convention/plan"
	"github.com/linecard/launch/pkg/convention/release"

	"github.com/charmbracelet/lipgloss"
	"github.com/golang-module/carbon/v2"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	createStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	updateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	orphanStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	noopStyle   = lipgloss.NewStyle().Faint(true)
)

func newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}

func Action(a plan.Action) string {
	switch a {
	case plan.Create:
		return createStyle.Render(string(a))
	case plan.Update:
		return updateStyle.Render(string(a))
	case plan.Orphan:
		return orphanStyle.Render(string(a))
	default:
		return noopStyle.Render(string(a))
	}
}

func Plan(changes []plan.Change) string {
	t := newTable(table.Row{"Service", "Action", "Reasons", "Needs"})

	for _, change := range changes {
		var needs []string
		if change.Provision() {
			needs = append(needs, "create")
		}
		if len(change.Drift) > 0 {
			needs = append(needs, "deploy")
		}

		reasons := append(append([]string{}, change.Reasons...), change.Drift...)
		t.AppendRow(table.Row{change.Name, Action(change.Action), strings.Join(reasons, ", "), strings.Join(needs, ", ")})
	}

	return t.Render()
}

type StatusRow struct {
	Service    string
	State      string
	Url        string
	Sha        string
	DeployedAt *time.Time
}

// Ago renders a timestamp relative to now, or "never".
func Ago(at *time.Time) string {
	if at == nil || at.IsZero() {
		return "never"
	}
	return carbon.CreateFromStdTime(*at).DiffForHumans()
}

func Status(rows []StatusRow) string {
	t := newTable(table.Row{"Service", "State", "Url", "Sha", "Deployed"})

	for _, row := range rows {
		sha := row.Sha
		if len(sha) > 8 {
			sha = sha[:8]
		}
		t.AppendRow(table.Row{row.Service, row.State, row.Url, sha, Ago(row.DeployedAt)})
	}

	return t.Render()
}

func Releases(summaries []release.Summary) string {
	t := newTable(table.Row{"Branch", "Sha", "Digest", "Age"})

	for _, s := range summaries {
		t.AppendRow(table.Row{s.Branch, s.Sha, s.Digest, s.Age})
	}

	return t.Render()
}

func Json(v any) (string, error) {
	j, err := json.MarshalIndent(v, "", "  ")
	return string(j), err
}
