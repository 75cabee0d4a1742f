package notify

import (
	"fmt"

	"github.com/slack-go/slack"
	"github.com/staywise/helpdesk/internal/models"
)

// SlackNotifier posts urgent-ticket alerts to the on-call Slack channel.
type SlackNotifier struct {
	api     *slack.Client
	channel string
}

func NewSlackNotifier(token, channel string) *SlackNotifier {
	return &SlackNotifier{api: slack.New(token), channel: channel}
}

func (n *SlackNotifier) NotifyUrgentTicket(ticket *models.Ticket, indicators []string) error {
	_, _, err := n.api.PostMessage(n.channel,
		slack.MsgOptionText(formatMessage(ticket, indicators), false))
	if err != nil {
		return fmt.Errorf("failed to post slack alert: %w", err)
	}
	return nil
}
