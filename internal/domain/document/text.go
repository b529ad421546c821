package document

import (
	"strings"
)

// PlanText renders the page as plain text for the text part of emails.
func PlanText(page PlanPage) string {
	var b strings.Builder
	b.WriteString(page.Title + "\n")
	b.WriteString(page.Subtitle + "\n\n")
	for _, f := range page.Profile {
		b.WriteString(f.Label + ": " + f.Value + "\n")
	}
	b.WriteString("\n" + page.Introduction + "\n")

	if page.Placeholder != "" {
		b.WriteString("\n" + page.Placeholder + "\n")
	}
	for _, week := range page.Weeks {
		b.WriteString("\n" + strings.ToUpper(week.Heading) + "\n")
		if week.EmptyText != "" {
			b.WriteString(week.EmptyText + "\n")
			continue
		}
		for _, day := range week.Days {
			b.WriteString("\n" + day.Heading + "\n")
			b.WriteString("Timing: " + day.Timing + "\n")
			b.WriteString("Workout:\n")
			if len(day.Workout) == 0 {
				b.WriteString("  " + day.WorkoutText + "\n")
			}
			for _, item := range day.Workout {
				b.WriteString("  • " + item + "\n")
			}
			b.WriteString("Nutrition:\n")
			if len(day.Meals) == 0 {
				b.WriteString("  " + day.MealsText + "\n")
			}
			for _, group := range day.Meals {
				b.WriteString("  " + group.Label + ": " + strings.Join(group.Items, "; ") + "\n")
			}
		}
	}
	if page.Progression != nil {
		b.WriteString("\n" + page.Progression.Title + "\n" + page.Progression.Body + "\n")
	}
	b.WriteString("\n" + page.Footer + "\n")
	return b.String()
}
