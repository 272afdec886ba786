package constants

// NATS Subjects
const (
	// SubjectTransactionUpdated is the default subject for persisted gateway state changes
	SubjectTransactionUpdated = "gateway.transaction.updated"
)
