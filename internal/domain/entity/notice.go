package entity

// NoticeLevel is the severity of a user-facing notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a short message the UI shows as a toast.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// NewNotice builds a notice; an empty message yields nil.
func NewNotice(level NoticeLevel, message string) *Notice {
	if message == "" {
		return nil
	}

	return &Notice{Level: level, Message: message}
}
