package services

// Notifier sends a text message to an end-user address. Delivery is
// best effort: callers log failures and move on, nothing is retried and
// nothing is surfaced to the end user.
type Notifier interface {
	Send(to, text string) error
}
