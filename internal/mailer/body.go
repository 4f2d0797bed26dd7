package mailer

import (
	"fmt"
	"html"
)

// HTMLBody renders the notification body. Notes come from free-form
// reviewer input, so they are escaped.
func HTMLBody(msg Message) string {
	return fmt.Sprintf(
		"<h1>New Mail Received</h1>\n"+
			"<p><strong>Notes:</strong> %s</p>\n"+
			"<p>%d attachment(s) included</p>\n",
		html.EscapeString(msg.Notes), len(msg.Attachments))
}
