package errors

const (
	CodeMissingFields = "missing_fields"
	CodeInvalidJSON   = "invalid_json"
	CodeDBError       = "db_error"
)

// Response is the JSON envelope every mutating endpoint answers with.
// Success responses carry ok=true (plus deduped for folded duplicate inserts);
// failures carry ok=false and, where applicable, a machine-readable code.
// Internal detail (driver messages etc.) never leaks into this shape.
type Response struct {
	OK      bool   `json:"ok"`
	Deduped bool   `json:"deduped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK is the plain success envelope.
func OK() Response {
	return Response{OK: true}
}

// OKDeduped marks a duplicate insert that was folded into success.
func OKDeduped() Response {
	return Response{OK: true, Deduped: true}
}

// Fail builds a failure envelope with a machine-readable code.
func Fail(code string) Response {
	return Response{OK: false, Error: code}
}

// Denied is the bare failure envelope used for auth rejections.
func Denied() Response {
	return Response{OK: false}
}
