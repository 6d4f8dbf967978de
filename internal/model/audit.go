package model

// AuditEvent is one entry of the security audit log
type AuditEvent struct {
	Event     string `db:"event"`
	Detail    string `db:"detail"`
	Stack     string `db:"stack"`
	RequestID string `db:"request_id"`
	Path      string `db:"path"`
}
