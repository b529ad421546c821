package plan

import (
	"encoding/json"
	"fmt"
	"strings"
)

var weekTitles = map[FitnessLevel]string{
	LevelBeginner:     `"Week 1: Foundation", "Week 2: Form Building", "Week 3: Strength Introduction", "Week 4: Consistency"`,
	LevelIntermediate: `"Week 1: Build Strength", "Week 2: Progressive Load", "Week 3: Intensity Increase", "Week 4: Power Week"`,
	LevelAdvanced:     `"Week 1: Peak Performance", "Week 2: Intensity Push", "Week 3: Maximum Load", "Week 4: Elite Challenge"`,
}

const responseShape = `{
  "title": "Your Custom 4-Week Cycle",
  "introduction": "Motivational 2-3 sentence intro using their name and goal",
  "weeks": [
    {
      "weekTitle": "Week 1: ...",
      "days": [
        {
          "dayTitle": "Day 1",
          "focus": "Upper Body Strength",
          "timing": "Wake: 7am, Workout: 8am, Meals: 12pm/3pm/7pm",
          "workout": "Push-ups: 3 sets of 12 reps; Dumbbell Bench Press: 4 sets of 8-10 reps; Plank: 3 sets of 45 seconds",
          "meals": "Breakfast: Oatmeal with banana and almonds (400 cal); Lunch: Grilled chicken with quinoa (550 cal); Dinner: Salmon with sweet potato (600 cal); Snacks: Greek yogurt, protein shake"
        }
      ]
    }
  ],
  "progressionNotes": "Week 5-8 (Next Cycle): ..."
}`

// buildSystemPrompt renders the formatting rules for one profile. The output
// depends only on the profile so identical submissions get identical prompts.
func buildSystemPrompt(p Profile) string {
	equipment := "bodyweight"
	if text := p.EquipmentText(); text != "Bodyweight Only" {
		equipment = text
	}
	level := p.FitnessLevel
	if level == "" {
		level = LevelBeginner
	}
	titles, ok := weekTitles[level]
	if !ok {
		titles = weekTitles[LevelBeginner]
	}

	var b strings.Builder
	b.WriteString("You are a world-class personal trainer with 15+ years experience coaching beginners to elite athletes.\n\n")
	b.WriteString("Create a highly detailed, personalized 4-week training + nutrition cycle based on the user's exact:\n")
	fmt.Fprintf(&b, "- Goal: %s\n", valueOr(string(p.Goal), "general fitness"))
	fmt.Fprintf(&b, "- Fitness level: %s (use this exactly, never assume beginner)\n", valueOr(string(p.FitnessLevel), "not specified"))
	fmt.Fprintf(&b, "- Timeline: %s\n", valueOr(string(p.Timeline), "not specified"))
	fmt.Fprintf(&b, "- Equipment: %s\n", equipment)
	fmt.Fprintf(&b, "- Diet preference: %s\n\n", valueOr(p.DietaryPreference, "no preference"))

	b.WriteString("RULES:\n")
	if p.Timeline.IsMultiCycle() {
		fmt.Fprintf(&b, "- Timeline is %q: this is Cycle 1 of a multi-cycle program. You MUST include a \"progressionNotes\" field explaining how to progress in the next 4-week cycle (weight increases, rep additions, rest reductions, exercise progressions).\n", p.Timeline)
	} else {
		b.WriteString("- This is the user's COMPLETE plan. Do NOT include a \"progressionNotes\" field.\n")
	}
	fmt.Fprintf(&b, "- Use these week titles for the user's level: %s.\n", titles)
	b.WriteString("- Week titles must reflect progressive difficulty within the user's level.\n\n")

	b.WriteString("Return a single VALID JSON object only (no extra text) with this shape:\n")
	b.WriteString(responseShape)
	b.WriteString("\n\nFORMATTING:\n")
	b.WriteString("- Exactly 4 weeks, each week MUST have 7 days (Day 1-7) with complete details.\n")
	b.WriteString("- \"workout\": separate exercises with semicolons, e.g. \"Exercise Name: Sets x Reps; Next Exercise: Sets x Reps\".\n")
	b.WriteString("- \"meals\": \"Breakfast: food (calories); Lunch: food (calories); Dinner: food (calories); Snacks: items\".\n")
	b.WriteString("- Every value (dayTitle, focus, timing, workout, meals) MUST be a STRING, never an object or array.\n")
	b.WriteString("- Be detailed but stay under the token limit; never truncate the JSON.\n")
	b.WriteString("- Use an encouraging but realistic tone.")
	return b.String()
}

func buildUserPrompt(p Profile) string {
	payload, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		payload = []byte("{}")
	}
	return "Create a fitness plan for:\n" + string(payload)
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
