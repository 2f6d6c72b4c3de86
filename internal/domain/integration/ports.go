package integration

import "context"

// Messenger sends customer-facing messages through a third-party chat
// provider. Consumed only as a fire-and-forget side effect: a delivery
// failure never affects the mutation that triggered it.
type Messenger interface {
	SendText(ctx context.Context, recipientID, text string) (bool, error)
	SendImage(ctx context.Context, recipientID, url string) (bool, error)
}

// SinkAction tells the export sink what happened to the record
type SinkAction string

const (
	SinkActionCreate SinkAction = "create"
	SinkActionUpdate SinkAction = "update"
	SinkActionDelete SinkAction = "delete"
)

// SinkResult reports the outcome of an export sync
type SinkResult struct {
	Success bool
	Error   string
}

// ExportSink mirrors records into an external spreadsheet. Best-effort only.
type ExportSink interface {
	Sync(ctx context.Context, record any, action SinkAction) (SinkResult, error)
}
