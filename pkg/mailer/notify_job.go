package mailer

// Job kinds understood by the notify worker.
const (
	KindWelcome       = "welcome"
	KindProductListed = "product_listed"
)

// NotifyJob is the JSON payload published to the notification queue.
// The worker composes the subject and body from Kind and Data.
type NotifyJob struct {
	Kind string            `json:"kind"`
	To   string            `json:"to"`
	Name string            `json:"name,omitempty"`
	Data map[string]string `json:"data,omitempty"`
}
