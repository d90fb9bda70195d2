package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"

	"brokebesties/internal/events"
)

// Message is a rendered notification.
type Message struct {
	Subject string
	Text    string
	HTML    string
	// Data travels with push messages.
	Data map[string]string
}

var subjects = map[string]string{
	events.SubjectDebt:             "debt",
	events.SubjectDebtTransaction:  "debt request",
	events.SubjectFriend:           "friend request",
	events.SubjectGroupInvite:      "group invite",
	events.SubjectRecurringPayment: "recurring payment",
}

var (
	subjectTmpl = template.Must(template.New("subject").Parse(
		`{{.Actor}} {{.Verb}} {{.Noun}}`))

	textTmpl = template.Must(template.New("text").Parse(
		`{{.Actor}} {{.Verb}} {{.Noun}}: {{.Summary}}.`))

	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(`<p><strong>{{.Actor}}</strong> {{.Verb}} {{.Noun}}.</p>
<p>{{.Summary}}</p>
<p><a href="{{.Link}}">Open BrokeBesties</a></p>`))
)

type view struct {
	Actor   string
	Verb    string
	Noun    string
	Summary string
	Link    string
}

var verbs = map[events.Type]string{
	events.Proposed:  "sent you a",
	events.Approved:  "accepted your",
	events.Rejected:  "declined your",
	events.Cancelled: "withdrew their",
	events.Created:   "recorded a",
	events.Removed:   "removed a",
}

// Render builds the message for ev. appURL is linked from the email body.
func Render(ev events.Event, appURL string) (Message, error) {
	noun, ok := subjects[ev.Subject]
	if !ok {
		return Message{}, fmt.Errorf("no template for subject %q", ev.Subject)
	}
	verb, ok := verbs[ev.Type]
	if !ok {
		return Message{}, fmt.Errorf("no template for event %q", ev.Type)
	}

	actor := ev.Actor.Name
	if actor == "" {
		actor = ev.Actor.Email
	}
	v := view{Actor: actor, Verb: verb, Noun: noun, Summary: ev.Summary, Link: appURL}

	var subject, text, html bytes.Buffer
	if err := subjectTmpl.Execute(&subject, v); err != nil {
		return Message{}, err
	}
	if err := textTmpl.Execute(&text, v); err != nil {
		return Message{}, err
	}
	if err := htmlTmpl.Execute(&html, v); err != nil {
		return Message{}, err
	}

	return Message{
		Subject: subject.String(),
		Text:    text.String(),
		HTML:    html.String(),
		Data: map[string]string{
			"subject":    ev.Subject,
			"subject_id": ev.SubjectID.String(),
			"event":      string(ev.Type),
		},
	}, nil
}
