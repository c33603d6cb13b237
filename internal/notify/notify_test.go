package notify

import (
	"errors"
	"testing"

	"github.com/flowbaker/filevault/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestForUpload(t *testing.T) {
	tests := []struct {
		name          string
		result        domain.UploadResult
		err           error
		expectedLevel Level
		expectedMsg   string
	}{
		{
			name:          "stored",
			result:        domain.UploadResult{Outcome: domain.UploadStored, Record: &domain.FileRecord{ReferenceCount: 1}},
			expectedLevel: LevelSuccess,
			expectedMsg:   "File uploaded successfully",
		},
		{
			name:          "duplicate",
			result:        domain.UploadResult{Outcome: domain.UploadDuplicate, Record: &domain.FileRecord{ReferenceCount: 3}},
			expectedLevel: LevelInfo,
			expectedMsg:   "File already exists in the system",
		},
		{
			name:          "rejected carries the backend message",
			result:        domain.UploadResult{Outcome: domain.UploadRejected, Message: "File type not allowed"},
			err:           &domain.RejectedError{StatusCode: 409, Message: "File type not allowed"},
			expectedLevel: LevelError,
			expectedMsg:   "Failed to upload file: File type not allowed",
		},
		{
			name:          "rejected without message falls back to the error",
			result:        domain.UploadResult{Outcome: domain.UploadRejected},
			err:           &domain.RejectedError{StatusCode: 400, Message: "bad"},
			expectedLevel: LevelError,
			expectedMsg:   "Failed to upload file: bad",
		},
		{
			name:          "network failure",
			result:        domain.UploadResult{Outcome: domain.UploadNetworkFailure, Message: "dial tcp"},
			err:           &domain.NetworkError{Op: "upload_file", Err: errors.New("dial tcp")},
			expectedLevel: LevelError,
			expectedMsg:   "Failed to upload file: network error, please try again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := ForUpload(tt.result, tt.err)

			assert.Equal(t, tt.expectedLevel, n.Level)
			assert.Equal(t, tt.expectedMsg, n.Message)
			assert.False(t, n.Time.IsZero())
		})
	}
}

func TestForDeleteAndDownload(t *testing.T) {
	failure := errors.New("boom")

	assert.Equal(t, "File deleted successfully", ForDelete(nil).Message)
	assert.Equal(t, "Failed to delete file", ForDelete(failure).Message)
	assert.Equal(t, failure, ForDelete(failure).Err)

	assert.Equal(t, "File downloaded to /tmp/a.png", ForDownload("/tmp/a.png", nil).Message)
	assert.Equal(t, LevelError, ForDownload("", failure).Level)
	assert.Equal(t, "Failed to download file", ForDownload("", failure).Message)
}

func TestChannelNotifier_DropsWhenFull(t *testing.T) {
	notifier := NewChannelNotifier(1)

	notifier.Notify(New(LevelInfo, "first"))
	notifier.Notify(New(LevelInfo, "second"))

	n := <-notifier.C()
	assert.Equal(t, "first", n.Message)

	select {
	case extra := <-notifier.C():
		t.Fatalf("unexpected notification %q", extra.Message)
	default:
	}
}

func TestNotifierFunc(t *testing.T) {
	var got []string
	notifier := NotifierFunc(func(n Notification) {
		got = append(got, n.Message)
	})

	notifier.Notify(New(LevelWarning, "careful"))
	LogNotifier{}.Notify(New(LevelError, "logged"))
	Discard.Notify(New(LevelInfo, "ignored"))

	assert.Equal(t, []string{"careful"}, got)
}
