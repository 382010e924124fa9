package notify

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid notify configuration")
	ErrFailedToSend  = errors.New("failed to send email")
)
