// Package document composes the layout-neutral content of the generated
// PDFs. Drawing is left to a Renderer so the same page can be printed with
// the desktop or the mobile style sheet.
package document

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yanqian/fitness-wizard/internal/domain/plan"
	"github.com/yanqian/fitness-wizard/internal/domain/plantext"
)

// Layout selects a style sheet.
type Layout string

const (
	LayoutDesktop Layout = "desktop"
	LayoutMobile  Layout = "mobile"
)

// Layouts lists every supported layout.
var Layouts = []Layout{LayoutDesktop, LayoutMobile}

// Renderer draws composed documents into PDF bytes.
type Renderer interface {
	RenderPlan(ctx context.Context, page PlanPage, layout Layout) ([]byte, error)
	RenderRoadmap(ctx context.Context, roadmap Roadmap) ([]byte, error)
}

const (
	headerTitle         = "Fitness Wizard Plan"
	defaultIntroduction = "Your personalized fitness journey starts here!"
	defaultFocus        = "General Fitness"
	defaultTiming       = "Flexible timing"
	defaultWorkout      = "Rest day or active recovery"
	defaultMeals        = "Balanced nutrition throughout the day"
	// EmptyWeekText is shown for a week that has no days.
	EmptyWeekText = "No days scheduled for this week."
	// PlaceholderText replaces the weeks when the plan has none.
	PlaceholderText = "Your personalized plan is being prepared. Please try generating again."
)

// Field is a labelled profile value.
type Field struct {
	Label string
	Value string
}

// MealGroup is one nutrition heading with its items.
type MealGroup struct {
	Label string
	Items []string
}

// DayBox is the content of one day card.
type DayBox struct {
	Heading string
	Timing  string
	// Workout holds the parsed bullets; WorkoutText is used when it is empty.
	Workout     []string
	WorkoutText string
	// Meals holds the parsed groups; MealsText is used when it is empty.
	Meals     []MealGroup
	MealsText string
}

// WeekSection is a week heading and its days.
type WeekSection struct {
	Heading string
	Days    []DayBox
	// EmptyText is set when the week has no days.
	EmptyText string
	// NewPage is set for every week after the first.
	NewPage bool
}

// Section is a titled block of text.
type Section struct {
	Title string
	Body  string
}

// PlanPage is the composed main plan.
type PlanPage struct {
	Title    string
	Subtitle string
	// Athlete is the display name used in Subtitle.
	Athlete      string
	ProfileTitle string
	Profile      []Field
	Introduction string
	Weeks        []WeekSection
	// Placeholder is set instead of Weeks when the plan has no weeks.
	Placeholder string
	Progression *Section
	Footer      string
}

// ComposePlan builds the page model for a plan. now is printed in the footer.
func ComposePlan(profile plan.Profile, doc plan.Document, now time.Time) PlanPage {
	timeline := profile.Timeline.Label()
	subtitle := "Your Complete 4-Week Plan"
	if profile.Timeline != plan.TimelineOneMonth {
		subtitle = fmt.Sprintf("Cycle 1 of Your %s Journey", timeline)
	}

	page := PlanPage{
		Title:        headerTitle,
		Subtitle:     fmt.Sprintf("Customized for %s • %s", profile.DisplayName(), subtitle),
		Athlete:      profile.DisplayName(),
		ProfileTitle: "Athlete Profile",
		Profile: []Field{
			{Label: "Goal", Value: plan.DisplayValue(string(profile.Goal))},
			{Label: "Fitness Level", Value: plan.DisplayValue(string(profile.FitnessLevel))},
			{Label: "Timeline", Value: timeline},
			{Label: "Equipment", Value: profile.EquipmentText()},
		},
		Introduction: orDefault(doc.Introduction, defaultIntroduction),
		Footer:       planFooter(now),
	}

	if len(doc.Weeks) == 0 {
		page.Placeholder = PlaceholderText
	}
	for i, week := range doc.Weeks {
		page.Weeks = append(page.Weeks, composeWeek(i, week))
	}

	notes := strings.TrimSpace(doc.ProgressionNotes)
	if notes != "" && profile.Timeline != plan.TimelineOneMonth {
		page.Progression = &Section{
			Title: fmt.Sprintf("Progression Plan for Your %s Journey", timeline),
			Body:  notes,
		}
	}
	return page
}

func composeWeek(index int, week plan.Week) WeekSection {
	section := WeekSection{
		Heading: orDefault(week.WeekTitle, fmt.Sprintf("Week %d", index+1)),
		NewPage: index > 0,
	}
	if len(week.Days) == 0 {
		section.EmptyText = EmptyWeekText
		return section
	}
	for i, day := range week.Days {
		section.Days = append(section.Days, composeDay(i, day))
	}
	return section
}

func composeDay(index int, day plan.Day) DayBox {
	title := orDefault(day.DayTitle, fmt.Sprintf("Day %d", index+1))
	workout := orDefault(day.Workout, defaultWorkout)
	meals := orDefault(day.Meals, defaultMeals)

	box := DayBox{
		Heading: fmt.Sprintf("%s — %s", title, orDefault(day.Focus, defaultFocus)),
		Timing:  orDefault(day.Timing, defaultTiming),
		Workout: plantext.ParseWorkout(workout),
	}
	if len(box.Workout) == 0 {
		box.WorkoutText = workout
	}
	for _, section := range plantext.ParseMeals(meals) {
		box.Meals = append(box.Meals, MealGroup{Label: section.Label, Items: section.Items})
	}
	if len(box.Meals) == 0 {
		box.MealsText = meals
	}
	return box
}

func planFooter(now time.Time) string {
	return fmt.Sprintf("Generated by AI Fitness Wizard • %s • v2.0 • Stay Consistent!", now.Format("1/2/2006, 3:04:05 PM"))
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
