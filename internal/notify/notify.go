// Package notify carries short user-facing messages about backend operations.
package notify

import (
	"errors"
	"fmt"
	"time"

	"github.com/flowbaker/filevault/pkg/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Level int

const (
	LevelSuccess Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

type Notification struct {
	Level   Level
	Message string
	Time    time.Time
	// Err is the underlying failure for error notifications.
	Err error
}

func New(level Level, message string) Notification {
	return Notification{Level: level, Message: message, Time: time.Now()}
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// LogNotifier writes notifications to the global logger.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	var event *zerolog.Event
	switch n.Level {
	case LevelError:
		event = log.Error().Err(n.Err)
	case LevelWarning:
		event = log.Warn()
	default:
		event = log.Info()
	}

	event.Str("level_name", n.Level.String()).Msg(n.Message)
}

// ChannelNotifier forwards notifications to a buffered channel. It never
// blocks; notifications are dropped while the buffer is full.
type ChannelNotifier struct {
	ch chan Notification
}

func NewChannelNotifier(buffer int) *ChannelNotifier {
	return &ChannelNotifier{ch: make(chan Notification, buffer)}
}

func (c *ChannelNotifier) Notify(n Notification) {
	select {
	case c.ch <- n:
	default:
		log.Debug().Str("message", n.Message).Msg("Notification dropped")
	}
}

func (c *ChannelNotifier) C() <-chan Notification {
	return c.ch
}

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(Notification) {})

// ForUpload maps an upload outcome to the message shown to the user.
func ForUpload(result domain.UploadResult, err error) Notification {
	switch result.Outcome {
	case domain.UploadStored:
		return New(LevelSuccess, "File uploaded successfully")
	case domain.UploadDuplicate:
		return New(LevelInfo, "File already exists in the system")
	}

	message := result.Message
	if message == "" {
		message = domain.RejectionMessage(err)
	}
	if result.Outcome == domain.UploadNetworkFailure || errors.Is(err, domain.ErrNetworkFailure) {
		message = "network error, please try again"
	}

	n := New(LevelError, "Failed to upload file: "+message)
	n.Err = err
	return n
}

func ForDelete(err error) Notification {
	if err != nil {
		n := New(LevelError, "Failed to delete file")
		n.Err = err
		return n
	}
	return New(LevelSuccess, "File deleted successfully")
}

func ForDownload(path string, err error) Notification {
	if err != nil {
		n := New(LevelError, "Failed to download file")
		n.Err = err
		return n
	}
	return New(LevelSuccess, "File downloaded to "+path)
}

func ForFetch(err error) Notification {
	n := New(LevelError, "Failed to fetch files")
	n.Err = err
	return n
}
