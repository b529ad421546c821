package bonus

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yanqian/fitness-wizard/internal/domain/plan"
)

var emailTemplate = template.Must(template.New("bonus").Parse(`<div style="font-family: sans-serif; color: #333;">
  <h1 style="color: #7c3aed;">Your Bonus Roadmap is Here! 🎁</h1>
  <p>Hi {{.FirstName}},</p>
  <p>As promised, here is your <strong>{{.Duration}}</strong> bonus roadmap to guide your long-term success.</p>
  <div style="background-color: #f0f9ff; padding: 15px; border-radius: 8px; border-left: 4px solid #7c3aed; margin: 20px 0;">
    <p style="margin: 0;">This roadmap includes your milestones, progression phases, and key focus areas for the next few months.</p>
  </div>
  <p>Keep crushing your goals!</p>
  <p>- The Fitness Team</p>
</div>
`))

type emailContent struct {
	Subject string
	HTML    string
	Text    string
}

func composeEmail(profile plan.Profile) (emailContent, error) {
	duration := profile.Timeline.DurationText()
	data := struct{ FirstName, Duration string }{profile.FirstName(), duration}

	var html bytes.Buffer
	if err := emailTemplate.Execute(&html, data); err != nil {
		return emailContent{}, fmt.Errorf("render bonus email: %w", err)
	}
	text := fmt.Sprintf("Hi %s,\n\nAs promised, here is your %s bonus roadmap to guide your long-term success.\n"+
		"It includes your milestones, progression phases, and key focus areas for the next few months.\n\n"+
		"Keep crushing your goals!\n- The Fitness Team\n", data.FirstName, duration)

	return emailContent{
		Subject: fmt.Sprintf("Your Bonus %s Roadmap! 🎁", duration),
		HTML:    html.String(),
		Text:    text,
	}, nil
}
