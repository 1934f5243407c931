package cliui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/papercomputeco/disrello/pkg/bot"
	"github.com/papercomputeco/disrello/pkg/model"
)

const listWidth = 34

// Printer renders boards and bot replies for a terminal. Without color it
// emits plain text, which keeps piped output and tests stable.
type Printer struct {
	color bool

	title   lipgloss.Style
	list    lipgloss.Style
	heading lipgloss.Style
	done    lipgloss.Style
	dim     lipgloss.Style
	channel lipgloss.Style
}

// NewPrinter returns a Printer writing for w.
func NewPrinter(w io.Writer, color bool) *Printer {
	profile := termenv.Ascii
	if color {
		profile = termenv.NewOutput(w).EnvColorProfile()
	}
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	r.SetColorProfile(profile)

	return &Printer{
		color:   color,
		title:   r.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		list:    r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1).Width(listWidth),
		heading: r.NewStyle().Foreground(lipgloss.Color("75")).Bold(true),
		done:    r.NewStyle().Foreground(lipgloss.Color("82")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("243")),
		channel: r.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// Board lays out a board's lists side by side.
func (p *Printer) Board(b *model.Board) string {
	cols := make([]string, 0, len(b.Lists))
	for _, l := range b.Lists {
		lines := []string{p.heading.Render(fmt.Sprintf("%s (%d)", l.Name, len(l.Cards)))}
		if len(l.Cards) == 0 {
			lines = append(lines, p.dim.Render("(empty)"))
		}
		for _, c := range l.Cards {
			lines = append(lines, p.card(c))
		}
		cols = append(cols, p.list.Render(strings.Join(lines, "\n")))
	}

	header := fmt.Sprintf("%s %s", p.title.Render(b.Name), p.dim.Render(b.ID))
	if len(cols) == 0 {
		return header + "\n"
	}
	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, cols...) + "\n"
}

func (p *Printer) card(c *model.Card) string {
	box := "[ ]"
	if c.Done {
		box = p.done.Render("[x]")
	}
	line := fmt.Sprintf("%s %s", box, c.Title)
	if !c.Done && c.Progress > 0 {
		line += p.dim.Render(fmt.Sprintf(" %d%%", c.Progress))
	}
	return line
}

// Reply renders one bot reply. Views go through glamour when color is on.
func (p *Printer) Reply(r bot.Reply) string {
	var b strings.Builder
	if r.ChannelID != "" {
		b.WriteString(p.channel.Render("→ <#"+r.ChannelID+">") + "\n")
	}

	body := r.Text
	if r.View != nil {
		body = r.View.Markdown()
		if p.color {
			if rendered, err := RenderMarkdown(body); err == nil {
				body = rendered
			}
		}
	}
	b.WriteString(strings.TrimRight(body, "\n"))
	b.WriteString("\n")

	if r.PostID != "" && len(r.Reactions) > 0 {
		b.WriteString(p.dim.Render(fmt.Sprintf("(react with %s: /react %s)", strings.Join(r.Reactions, " "), r.PostID)))
		b.WriteString("\n")
	}
	return b.String()
}
