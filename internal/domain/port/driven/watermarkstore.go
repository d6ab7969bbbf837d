package driven

import "context"

// WatermarkStore persists the highest issue number already processed for a
// repository. Load returns 0 when nothing has been stored yet or the stored
// value is unreadable as a number.
type WatermarkStore interface {
	Load(ctx context.Context) (int, error)
	Save(ctx context.Context, watermark int) error
}
