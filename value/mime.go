package value

// MIMEMessage is the in-memory form of CBOR tag 36: a serialized MIME
// message carried as text. Construction of a well-formed MIME message is
// the caller's responsibility; this type only carries the already-rendered
// text.
type MIMEMessage string

// Serialize returns the message's text form.
func (m MIMEMessage) Serialize() string { return string(m) }
