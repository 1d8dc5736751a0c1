package mailer

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

var eventNotificationTmpl = template.Must(template.New("event_notification").Parse(`
<html>
  <body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Nouvel évènement : {{.EventTitle}}</h2>
    <p>Bonjour {{.SubscriberName}},</p>
    <p>Un nouvel évènement vient d'être publié :</p>
    <ul>
      <li><strong>Titre :</strong> {{.EventTitle}}</li>
      <li><strong>Date :</strong> {{.EventDate}}</li>
      <li><strong>Lieu :</strong> {{.EventLocation}}</li>
    </ul>
    <p><a href="{{.EventURL}}">Voir l'évènement et s'inscrire</a></p>
    <p>À bientôt !</p>
  </body>
</html>
`))

// EventNotificationParams feeds the publish-notification template.
type EventNotificationParams struct {
	SubscriberName string
	EventTitle     string
	EventDate      string
	EventLocation  string
	EventURL       string
}

// BuildEventNotification renders the email sent to subscribers when an event
// is published. The deep link points at the public site, not the API.
func BuildEventNotification(to Recipient, title, location, slug, baseURL string, date time.Time) Message {
	params := EventNotificationParams{
		SubscriberName: to.Name,
		EventTitle:     title,
		EventDate:      date.Format("02/01/2006"),
		EventLocation:  location,
		EventURL:       strings.TrimRight(baseURL, "/") + "/evenements/" + slug,
	}
	if params.SubscriberName == "" {
		params.SubscriberName = "cher abonné"
	}

	var body strings.Builder
	// The template is a compile-time constant; rendering it cannot fail for
	// any params value.
	_ = eventNotificationTmpl.Execute(&body, params)

	return Message{
		To:      to.Email,
		ToName:  to.Name,
		Subject: fmt.Sprintf("Nouvel évènement : %s", title),
		HTML:    body.String(),
	}
}

// BuildNewsletter wraps prepared newsletter HTML into a message for one
// subscriber.
func BuildNewsletter(to Recipient, subject, content string) Message {
	return Message{
		To:      to.Email,
		ToName:  to.Name,
		Subject: subject,
		HTML:    content,
	}
}
