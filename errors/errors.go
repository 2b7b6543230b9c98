package errors

import "fmt"

var (
	ErrWorkerPanic    = fmt.Errorf("worker panic")
	ErrChatNotFound   = fmt.Errorf("chat not found")
	ErrInvalidInput   = fmt.Errorf("invalid input")
	ErrNoActiveChat   = fmt.Errorf("no active chat")
	ErrNoParticipant  = fmt.Errorf("chat has no other participant")
	ErrInvalidConfig  = fmt.Errorf("invalid configuration")
	ErrUnknownCommand = fmt.Errorf("unknown command")
)
