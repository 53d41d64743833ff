package enums

// OutboxEventType is the canonical event_type for outbox rows.
type OutboxEventType string

const (
	EventRequestSubmitted     OutboxEventType = "request.submitted"
	EventRequestApproved      OutboxEventType = "request.approved"
	EventRequestRejected      OutboxEventType = "request.rejected"
	EventRequestHandover      OutboxEventType = "request.handover"
	EventRequestReturnStarted OutboxEventType = "request.return_started"
	EventRequestReceived      OutboxEventType = "request.received"
	EventRequestClosed        OutboxEventType = "request.closed"
	EventRequestCancelled     OutboxEventType = "request.cancelled"
	EventItemRepairDone       OutboxEventType = "item.repair_done"
	EventReturnDueReminder    OutboxEventType = "request.return_due"
)

// OutboxAggregateType identifies the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateItemRequest OutboxAggregateType = "item_request"
	AggregateItem        OutboxAggregateType = "item"
)
