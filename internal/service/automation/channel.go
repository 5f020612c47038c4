package automation

import "github.com/jwalitptl/studio-automations/internal/model"

// channelPriority is consulted in order; the first channel that is both
// enabled on the workflow and backed by a sender wins.
var channelPriority = []model.Channel{
	model.ChannelEmail,
	model.ChannelWhatsApp,
}

// SelectChannel returns the workflow's delivery channel, or false when no
// enabled channel can be delivered.
func SelectChannel(w *model.Workflow, supported func(model.Channel) bool) (model.Channel, bool) {
	for _, ch := range channelPriority {
		if w.HasChannel(ch) && supported(ch) {
			return ch, true
		}
	}
	return "", false
}

// address returns the client's address on the given channel.
func address(ch model.Channel, client *model.Client) string {
	switch ch {
	case model.ChannelEmail:
		return client.Email
	case model.ChannelWhatsApp:
		return client.Phone
	default:
		return ""
	}
}
