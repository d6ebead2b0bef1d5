package insights

import (
	"fmt"
	"math"
	"strings"
	"time"

	"monollogs/internal/models"
)

const (
	DefaultReportType = "weekly"
	reportTodoLimit   = 5
	reportTopAreas    = 3
)

// Report renders the markdown insights report for the given report type.
// The output depends only on its inputs and opts.Now.
func Report(kind string, sessions []models.Session, todos []models.Todo, opts Options) string {
	opts = opts.normalize()
	if kind == "" {
		kind = DefaultReportType
	}
	period := "month"
	if kind == DefaultReportType {
		period = "week"
	}

	totalMessages := 0
	authors := newTally()
	for _, se := range sessions {
		totalMessages += se.MessageCount
		authors.add(se.SavedBy, 1)
	}
	groups := groupAreas(sessions)
	areas := newTally()
	for _, g := range groups {
		areas.add(g.area, g.sessions)
	}
	var topAreas []string
	for i, c := range areas.ranked() {
		if i == reportTopAreas {
			break
		}
		topAreas = append(topAreas, c.key)
	}
	open := openTodos(todos)
	models.SortTodos(open)
	stale := staleTodos(open, opts.staleCutoff())
	hasSilo := false
	for _, g := range groups {
		if len(g.contributors) == 1 {
			hasSilo = true
			break
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s Insights Report\n", titleCase(kind))
	fmt.Fprintf(&b, "Generated: %s\n\n", opts.Now.In(opts.Location).Format(time.DateOnly))

	b.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(&b, "This %s the team ran **%d sessions** and exchanged **%d messages**. ", period, len(sessions), totalMessages)
	fmt.Fprintf(&b, "The main areas of work were %s, and ", strings.Join(topAreas, ", "))
	if ranked := authors.ranked(); len(ranked) > 0 {
		fmt.Fprintf(&b, "%s was the most active contributor with %d sessions.\n\n", ranked[0].key, ranked[0].n)
	} else {
		b.WriteString("there is not enough activity data yet.\n\n")
	}

	b.WriteString("## Highlights\n\n")
	lead := "N/A"
	if len(topAreas) > 0 {
		lead = topAreas[0]
	}
	fmt.Fprintf(&b, "- ✅ Active work in the **%s** area\n", lead)
	fmt.Fprintf(&b, "- 🔄 %d sessions completed, %d TODOs in progress\n", len(sessions), len(open))
	if len(stale) > 0 {
		fmt.Fprintf(&b, "- ⚠️ %d TODOs open for more than %d days\n\n", len(stale), opts.StaleAfterDays)
	} else {
		b.WriteString("- ⚠️ All TODOs are being handled in time\n\n")
	}

	b.WriteString("## Team Analysis\n\n")
	b.WriteString("### Contribution\n\n")
	for _, author := range authors.order {
		n := authors.n[author]
		pct := int(math.Round(float64(n) / float64(len(sessions)) * 100))
		fmt.Fprintf(&b, "- **%s**: %d sessions (%d%%)\n", author, n, pct)
	}
	b.WriteString("\n### Knowledge Map\n\n")
	for _, g := range groups {
		line := fmt.Sprintf("- **%s/***: %s", g.area, strings.Join(g.contributors, ", "))
		if len(g.contributors) == 1 {
			line += " ⚠️ (sole owner)"
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n### Collaboration Opportunities\n\n")
	if len(authors.order) > 1 {
		fmt.Fprintf(&b, "- %s and %s would benefit from working together on shared areas.\n", authors.order[0], authors.order[1])
		b.WriteString("- Code reviews or pair programming help prevent knowledge silos.\n\n")
	} else {
		b.WriteString("- Collaboration analysis becomes available once more people contribute.\n\n")
	}

	b.WriteString("## Technical Debt\n\n")
	fmt.Fprintf(&b, "There are currently **%d open TODOs**.\n\n", len(open))
	for i, td := range open {
		if i == reportTodoLimit {
			break
		}
		fmt.Fprintf(&b, "- [ ] %s (%s, %s)\n", td.Content, td.Session, td.Author)
	}
	if len(open) > reportTodoLimit {
		fmt.Fprintf(&b, "\n... and %d more\n", len(open)-reportTodoLimit)
	}
	if len(stale) > 0 {
		fmt.Fprintf(&b, "\n### ⚠️ Stale TODOs (over %d days)\n\n", opts.StaleAfterDays)
		for _, td := range stale {
			fmt.Fprintf(&b, "- %s\n", td.Content)
		}
	}

	b.WriteString("\n## Recommendations\n\n")
	if len(stale) > 0 {
		b.WriteString("1. Review and clean up the stale TODO items.\n")
	} else {
		b.WriteString("1. TODOs are well managed. Keep it up.\n")
	}
	if hasSilo {
		b.WriteString("2. Plan knowledge sharing sessions for single-owner areas.\n")
	} else {
		b.WriteString("2. Knowledge is well distributed across the team.\n")
	}
	b.WriteString("3. Share progress in regular team sync meetings.\n\n")

	b.WriteString("## Next Steps\n\n")
	if len(stale) > 0 {
		b.WriteString("- [ ] Hold a stale TODO cleanup meeting\n")
	} else {
		b.WriteString("- [ ] Plan the next features\n")
	}
	fmt.Fprintf(&b, "- [ ] Set goals for next %s\n", period)
	b.WriteString("- [ ] Schedule code review and knowledge sharing sessions")
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
