package email

import "fmt"

// DeliveryError is returned by senders when the transport rejected or
// failed to accept an email. StatusCode is the transport specific status,
// an SMTP reply code or an HTTP status code. It is 0 when no status was
// received, for example when the connection failed.
type DeliveryError struct {
	Transport  string
	StatusCode int
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s delivery failed: %v", e.Transport, e.Err)
	}
	return fmt.Sprintf("%s delivery failed with status %d: %v", e.Transport, e.StatusCode, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
