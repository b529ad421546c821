package delivery

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yanqian/fitness-wizard/internal/domain/bonus"
	"github.com/yanqian/fitness-wizard/internal/domain/document"
	"github.com/yanqian/fitness-wizard/internal/domain/plan"
)

var planEmailTemplate = template.Must(template.New("plan").Parse(`<div style="font-family: sans-serif; color: #333;">
  <h1>Your Plan is Ready! 🎉</h1>
  <p>Hi {{.FirstName}},</p>
  <p>Here is your personalized <strong>{{.Duration}}</strong> fitness plan.</p>
  <p>Open the attachment to view your full 4-week cycle detail!</p>
  {{- if .BonusNotice}}
  <p style="color: #666; font-size: 12px; margin-top: 20px;">
    <em>* Your bonus roadmap will arrive in a separate email shortly! 🎁</em>
  </p>
  {{- end}}
  {{- if .ReplyTo}}
  <p style="margin-top:30px; color:#666; font-size:14px;">
    Questions? Reply to this email or reach out directly:<br>
    <strong>{{.ReplyTo}}</strong>
  </p>
  {{- end}}
</div>
`))

type planEmail struct {
	Subject string
	HTML    string
	Text    string
}

func composePlanEmail(profile plan.Profile, page document.PlanPage, replyTo string) (planEmail, error) {
	duration := profile.Timeline.DurationText()
	data := struct {
		FirstName   string
		Duration    string
		BonusNotice bool
		ReplyTo     string
	}{
		FirstName:   profile.FirstName(),
		Duration:    duration,
		BonusNotice: bonus.Eligible(profile.Timeline),
		ReplyTo:     replyTo,
	}

	var html bytes.Buffer
	if err := planEmailTemplate.Execute(&html, data); err != nil {
		return planEmail{}, fmt.Errorf("render plan email: %w", err)
	}

	text := fmt.Sprintf("Hi %s,\n\nHere is your personalized %s fitness plan. The full plan is attached as a PDF.\n\n%s",
		data.FirstName, duration, document.PlanText(page))
	if data.BonusNotice {
		text += "\n* Your bonus roadmap will arrive in a separate email shortly!\n"
	}

	return planEmail{
		Subject: fmt.Sprintf("Your Personalized %s Fitness Plan 🚀", duration),
		HTML:    html.String(),
		Text:    text,
	}, nil
}
