package driven

import "context"

// ProgressPublisher records an updated watermark somewhere outside the
// process, such as a commit pushed to the repository that holds the state file.
type ProgressPublisher interface {
	Publish(ctx context.Context, watermark int) error
}
