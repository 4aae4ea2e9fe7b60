package domain

// Channel names a notification sink destination. Sends are fire-and-forget:
// a failed or slow notification must never delay a financial operation.
type Channel string

const (
	ChannelNotification      Channel = "notification"
	ChannelWise              Channel = "wise"
	ChannelHouseholdFinances Channel = "household-finances"
	ChannelLogs              Channel = "logs"
)
