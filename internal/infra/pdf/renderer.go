// Package pdf draws composed plan documents with the fpdf core fonts.
package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/fitness-wizard/internal/domain/document"
)

// Renderer implements document.Renderer.
type Renderer struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewRenderer is a wire provider for the PDF renderer.
func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{logger: logger.With("component", "pdf.renderer"), now: time.Now}
}

var _ document.Renderer = (*Renderer)(nil)

// RenderPlan draws the main plan with the style sheet of layout.
func (r *Renderer) RenderPlan(ctx context.Context, page document.PlanPage, layout document.Layout) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st, ok := sheets[layout]
	if !ok {
		return nil, fmt.Errorf("unknown layout %q", layout)
	}

	w := newWriter(st, page.Footer, r.now())
	w.useName(page.Athlete)
	w.SetTitle(page.Title, true)
	w.planHeader(page)
	w.profile(page)
	w.block(box{runs: []run{w.newRun(page.Introduction, st.text)}})

	if page.Placeholder != "" {
		w.block(box{runs: []run{w.newRun(page.Placeholder, st.text)}, fill: &slate50, bar: &purple, pad: st.boxPad})
	}
	for _, week := range page.Weeks {
		w.week(week)
	}
	if p := page.Progression; p != nil {
		title := w.newRun(p.Title, st.progTitle)
		body := w.newRun(p.Body, st.progText)
		body.before = 4
		w.block(box{runs: []run{title, body}, fill: &indigo50, bar: &purple, pad: st.boxPad + 2})
	}

	out, err := w.finish()
	if err != nil {
		return nil, fmt.Errorf("render %s plan: %w", layout, err)
	}
	r.logger.Debug("plan pdf rendered", "layout", layout, "pages", w.PageNo(), "bytes", len(out))
	return out, nil
}

func (w *writer) planHeader(page document.PlanPage) {
	title := w.newRun(page.Title, w.st.title)
	subtitle := w.newRun(page.Subtitle, w.st.subtitle)
	subtitle.before = 4
	w.block(box{runs: []run{title, subtitle}, fill: &purple, pad: w.st.boxPad + 4})
}

func (w *writer) profile(page document.PlanPage) {
	st := w.st
	fields := make([]box, 0, len(page.Profile))
	for _, f := range page.Profile {
		fields = append(fields, box{runs: []run{
			w.newRun(strings.ToUpper(f.Label), st.label),
			w.newRun(f.Value, st.value),
		}})
	}

	title := w.newRun(strings.ToUpper(page.ProfileTitle), st.section)
	inner := w.width - 2*st.boxPad - st.barWidth
	colW := (inner - st.gap) / 2
	gridH := 0.0
	for i := 0; i < len(fields); i += 2 {
		rowH := w.boxHeight(fields[i], colW)
		if i+1 < len(fields) {
			rowH = max(rowH, w.boxHeight(fields[i+1], colW))
		}
		gridH += rowH + 4
	}
	titleH := w.runHeight(title, inner)
	h := 2*st.boxPad + titleH + 4 + gridH

	w.ensure(h)
	y := w.GetY()
	w.drawBox(box{fill: &slate50, bar: &purple}, w.left, y, w.width, h)
	x := w.left + st.barWidth + st.boxPad
	cy := w.drawRun(title, x, y+st.boxPad, inner) + 4
	for i := 0; i < len(fields); i += 2 {
		rowH := w.boxHeight(fields[i], colW)
		w.drawBox(fields[i], x, cy, colW, rowH)
		if i+1 < len(fields) {
			next := w.boxHeight(fields[i+1], colW)
			w.drawBox(fields[i+1], x+colW+st.gap, cy, colW, next)
			rowH = max(rowH, next)
		}
		cy += rowH + 4
	}
	w.SetY(y + h + st.gap)
}

func (w *writer) week(week document.WeekSection) {
	st := w.st
	if week.NewPage {
		w.AddPage()
	}
	heading := w.newRun(week.Heading, st.week)
	h := w.runHeight(heading, w.width)
	w.ensure(h + 6)
	y := w.drawRun(heading, w.left, w.GetY(), w.width)
	w.SetDrawColor(pinkLight.r, pinkLight.g, pinkLight.b)
	w.SetLineWidth(1)
	w.Line(w.left, y+2, w.left+w.width, y+2)
	w.SetY(y + 6)

	if week.EmptyText != "" {
		w.block(box{runs: []run{w.newRun(week.EmptyText, st.text)}})
		return
	}
	boxes := make([]box, 0, len(week.Days))
	for _, day := range week.Days {
		boxes = append(boxes, w.dayBox(day))
	}
	w.grid(boxes, st.columns, st.gap)
}

func (w *writer) dayBox(day document.DayBox) box {
	st := w.st
	header := w.newRun(day.Heading, st.dayHeader)
	header.fill = &slate100

	sub := func(label string) run {
		r := w.newRun(label, st.subHeader)
		r.before = 3
		return r
	}
	runs := []run{header, sub("TIMING"), w.newRun(day.Timing, st.text), sub("WORKOUT")}
	if len(day.Workout) == 0 {
		runs = append(runs, w.newRun(day.WorkoutText, st.text))
	}
	for _, item := range day.Workout {
		r := w.newRun("• "+item, st.bullet)
		r.indent = st.indent
		runs = append(runs, r)
	}

	runs = append(runs, sub("NUTRITION"))
	if len(day.Meals) == 0 {
		runs = append(runs, w.newRun(day.MealsText, st.text))
	}
	for _, group := range day.Meals {
		label := w.newRun(group.Label+":", st.mealType)
		label.before = 2
		runs = append(runs, label)
		for _, item := range group.Items {
			r := w.newRun(item, st.mealItem)
			r.indent = st.indent
			runs = append(runs, r)
		}
	}
	return box{runs: runs, fill: &sky50, bar: &purple, pad: st.boxPad}
}

// RenderRoadmap draws the bonus roadmap.
func (r *Renderer) RenderRoadmap(ctx context.Context, roadmap document.Roadmap) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st := roadmapSheet
	w := newWriter(st, roadmap.Footer, r.now())
	w.useName(roadmap.Athlete)
	w.SetTitle(roadmap.Title, true)

	subtitle := w.newRun(roadmap.Subtitle, st.subtitle)
	subtitle.before = 6
	w.block(box{runs: []run{
		w.newRun(roadmap.Title, st.title),
		w.newRun(roadmap.Name, st.value),
		subtitle,
	}, fill: &purple, pad: st.boxPad * 2})

	author := w.newRun(roadmap.QuoteAuthor, st.label)
	author.before = 4
	w.block(box{runs: []run{w.newRun(roadmap.Quote, st.progText), author}, fill: &indigo50, bar: &purple, pad: st.boxPad})

	w.block(w.section(roadmap.Welcome.Title, []string{roadmap.Welcome.Body}, false))
	w.milestones(roadmap.MilestonesTitle, roadmap.Milestones)
	w.block(w.section(roadmap.PhasesTitle, roadmap.Phases, true))
	w.block(box{runs: []run{w.newRun(roadmap.Motivation, font{size: 13, style: "B", color: white, leading: 1.4})}, fill: &purple, pad: st.boxPad})
	w.block(w.section(roadmap.TipsTitle, roadmap.Tips, false))
	w.block(w.section(roadmap.Closing.Title, []string{roadmap.Closing.Body}, false))

	out, err := w.finish()
	if err != nil {
		return nil, fmt.Errorf("render roadmap: %w", err)
	}
	r.logger.Debug("roadmap pdf rendered", "title", roadmap.Title, "bytes", len(out))
	return out, nil
}

func (w *writer) section(title string, lines []string, bullets bool) box {
	runs := []run{w.newRun(title, w.st.section)}
	for _, line := range lines {
		if bullets {
			line = "• " + line
		}
		r := w.newRun(line, w.st.bullet)
		r.before = 2
		runs = append(runs, r)
	}
	return box{runs: runs}
}

func (w *writer) milestones(title string, milestones []document.Milestone) {
	st := w.st
	const barW, barH = 48.0, 8.0
	heading := w.newRun(title, st.progTitle)
	rowH := st.bullet.lineHeight() + 4
	h := w.runHeight(heading, w.width) + float64(len(milestones))*rowH + 2*st.boxPad

	w.ensure(h)
	y := w.GetY()
	w.SetFillColor(slate50.r, slate50.g, slate50.b)
	w.Rect(w.left, y, w.width, h, "F")
	cy := w.drawRun(heading, w.left+st.boxPad, y+st.boxPad, w.width-2*st.boxPad)
	for _, m := range milestones {
		fill := gray200
		f := st.bullet
		if m.Completed {
			fill = purple
			f = st.mealType
		}
		w.SetFillColor(fill.r, fill.g, fill.b)
		w.Rect(w.left+st.boxPad, cy+(rowH-barH)/2, barW, barH, "F")
		text := w.newRun(m.Label+": "+m.Description, f)
		w.drawRun(text, w.left+st.boxPad+barW+8, cy+2, w.width-2*st.boxPad-barW-8)
		cy += rowH
	}
	w.SetY(y + h + st.gap)
}
