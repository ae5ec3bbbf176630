package enums

// MessageType classifies a flash message returned by storefront endpoints.
type MessageType string

const (
	MessageSuccess MessageType = "success"
	MessageError   MessageType = "error"
	MessageInfo    MessageType = "info"
	MessageWarning MessageType = "warning"
)

// String implements fmt.Stringer.
func (m MessageType) String() string {
	return string(m)
}

// IsSuccess reports whether the banner should render in the success style.
func (m MessageType) IsSuccess() bool {
	return m == MessageSuccess
}
