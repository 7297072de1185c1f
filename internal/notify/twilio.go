// Package notify sends the moderation alert SMS when a public comment
// lands in the pending queue. It is optional: without the TWILIO_* env
// vars the notifier is nil and every call is a no-op.
package notify

import (
	"fmt"
	"log"
	"os"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type Notifier struct {
	client *twilio.RestClient
	from   string
	to     string
}

// NewFromEnv returns nil unless all four variables are set.
func NewFromEnv() *Notifier {
	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	token := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_FROM_NUMBER")
	to := os.Getenv("MODERATION_ALERT_NUMBER")
	if sid == "" || token == "" || from == "" || to == "" {
		return nil
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: sid,
		Password: token,
	})
	return &Notifier{client: client, from: from, to: to}
}

// CommentPending alerts the moderation number about a new pending
// comment. Failures are logged and swallowed; an alert must never fail
// the comment submission.
func (n *Notifier) CommentPending(postTitle, authorName string) {
	if n == nil {
		return
	}

	body := fmt.Sprintf("New comment from %s on %q is awaiting moderation", authorName, postTitle)
	params := &openapi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(body)

	if _, err := n.client.Api.CreateMessage(params); err != nil {
		log.Printf("Failed to send moderation alert: %v", err)
	}
}
