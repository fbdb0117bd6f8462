package logkey

// Attribute keys shared by every slog call so log lines can be grepped across packages.
const (
	TraceID = "TRACE ID"
	ERROR   = "ERROR"
	OrderID = "OrderID"
	ItemID  = "ItemID"
	Backend = "Backend"
	Event   = "Event"
)
