package interfaces

import "github.com/finport-lab/riskcast/pkg/domain/model"

// ProgressPublisher delivers lifecycle events to all currently
// subscribed observers. Publishing never blocks and never retries a
// failed delivery.
type ProgressPublisher interface {
	Publish(event *model.ProgressEvent)
}
