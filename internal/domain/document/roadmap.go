package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/yanqian/fitness-wizard/internal/domain/plan"
)

// Milestone is one month on the roadmap tracker.
type Milestone struct {
	Label       string
	Description string
	Completed   bool
}

// Roadmap is the composed bonus document for multi-cycle timelines.
type Roadmap struct {
	Title string
	Name  string
	// Athlete is the display name used in Name and the section titles.
	Athlete     string
	Subtitle    string
	Quote       string
	QuoteAuthor string
	Welcome     Section
	// MilestonesTitle heads the Milestones tracker.
	MilestonesTitle string
	Milestones      []Milestone
	PhasesTitle     string
	Phases          []string
	Motivation      string
	TipsTitle       string
	Tips            []string
	Closing         Section
	Footer          string
}

var (
	threeMonthMilestones = []Milestone{
		{Label: "Month 1", Description: "Foundation & Form ✓", Completed: true},
		{Label: "Month 2", Description: "Building Strength"},
		{Label: "Month 3", Description: "Peak Performance"},
	}
	sixMonthMilestones = []Milestone{
		{Label: "Month 1", Description: "Foundation & Form ✓", Completed: true},
		{Label: "Month 2", Description: "Building Strength"},
		{Label: "Month 3", Description: "Increasing Intensity"},
		{Label: "Month 4", Description: "Advanced Techniques"},
		{Label: "Month 5", Description: "Peak Performance"},
		{Label: "Month 6", Description: "Consolidation & Celebration"},
	}
)

// RoadmapTitle names the bonus program for a timeline.
func RoadmapTitle(t plan.Timeline) string {
	if t == plan.TimelineThreeMonths {
		return "3-Month Transformation"
	}
	return "6-Month Mastery"
}

// RoadmapFilename is the attachment name of the bonus PDF.
func RoadmapFilename(t plan.Timeline) string {
	if t == plan.TimelineThreeMonths {
		return "Bonus_3_Month_Roadmap.pdf"
	}
	return "Bonus_6_Month_Blueprint.pdf"
}

// ComposeRoadmap builds the bonus roadmap for a 3 or 6 month profile.
func ComposeRoadmap(profile plan.Profile, now time.Time) Roadmap {
	threeMonths := profile.Timeline == plan.TimelineThreeMonths
	title := RoadmapTitle(profile.Timeline)
	firstName := profile.FirstName()

	goal := strings.ReplaceAll(string(profile.Goal), "_", " ")
	if goal == "" {
		goal = "fitness"
	}
	level := string(profile.FitnessLevel)
	if level == "" {
		level = string(plan.LevelIntermediate)
	}

	milestones := sixMonthMilestones
	if threeMonths {
		milestones = threeMonthMilestones
	}
	phases := []string{
		"Weeks 1-4: Follow your current AI-generated cycle",
		"Weeks 5-8: Increase weights 5-10%, add 1-2 reps per set, reduce rest by 15s",
		"Weeks 9-12: Add supersets/drop sets, introduce advanced variations",
	}
	if !threeMonths {
		phases = append(phases,
			"Months 4-5: Strength & endurance focus — higher volume, new blocks",
			"Month 6: Peak phase + deload — celebrate your progress!",
		)
	}

	return Roadmap{
		Title:       title,
		Name:        "For " + profile.DisplayName(),
		Athlete:     profile.DisplayName(),
		Subtitle:    fmt.Sprintf("Goal: %s • Level: %s", goal, level),
		Quote:       `"Success is the sum of small efforts repeated day in and day out."`,
		QuoteAuthor: "— Robert Collier",
		Welcome: Section{
			Title: fmt.Sprintf("Welcome, %s!", firstName),
			Body: fmt.Sprintf("This roadmap builds on your 4-week cycle to guide you through the full %s journey. "+
				"Stay consistent, track your progress, and watch the transformation happen. You've got this!", strings.ToLower(title)),
		},
		MilestonesTitle: "📊 Your Journey Milestones",
		Milestones:      append([]Milestone(nil), milestones...),
		PhasesTitle:     "🚀 Your Progression Roadmap",
		Phases:          phases,
		Motivation:      "💪 Every rep counts. Every meal matters. Every day is progress.",
		TipsTitle:       "✨ Track Your Wins",
		Tips: []string{
			"📸 Take progress photos every 4 weeks",
			"📝 Log workouts & measurements weekly",
			"🎉 Celebrate small victories — you're building something incredible",
		},
		Closing: Section{
			Title: fmt.Sprintf("Remember, %s...", firstName),
			Body: "Transformation isn't about being perfect. It's about being consistent. " +
				"Show up for yourself every day, trust the process, and the results will follow. " +
				"You're not just building a better body—you're building discipline, confidence, and a stronger version of yourself. Keep going!",
		},
		Footer: fmt.Sprintf("Generated by AI Fitness Wizard • %s • Stay Consistent! 💜", now.Format("1/2/2006")),
	}
}
