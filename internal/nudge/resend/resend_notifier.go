package resend

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/brk3/consistent/internal/nudge"
	"github.com/resend/resend-go/v2"
)

const defaultFrom = "onboarding@resend.dev"

type ResendNotifier struct {
	ApiKey string
	Email  string
	From   string
}

var nudgeTemplate = template.Must(template.New("email").Parse(`
<p>Your streak for the following habits ends at midnight, {{.Hours}} hours from now:</p>
<ul>
{{range .Habits}}
  <li>{{.}}</li>
{{end}}
</ul>
<p>Log them today to keep the streak going.</p>
`))

func subject(habits []string) string {
	if len(habits) == 1 {
		return fmt.Sprintf("Your %s streak is at risk", habits[0])
	}
	return fmt.Sprintf("%d streaks are at risk", len(habits))
}

func render(habits []string, hoursTillExpiry int) (string, error) {
	data := struct {
		Habits []string
		Hours  int
	}{
		Habits: habits,
		Hours:  hoursTillExpiry,
	}
	var buf bytes.Buffer
	if err := nudgeTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *ResendNotifier) SendNudge(habits []string, hoursTillExpiry int) error {
	html, err := render(habits, hoursTillExpiry)
	if err != nil {
		return err
	}

	from := r.From
	if from == "" {
		from = defaultFrom
	}

	client := resend.NewClient(r.ApiKey)
	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{r.Email},
		Subject: subject(habits),
		Html:    html,
	}

	_, err = client.Emails.Send(params)
	return err
}

var _ nudge.Notifier = (*ResendNotifier)(nil)
