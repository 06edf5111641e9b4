package servicebus_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"command-center/domain/model"
	"command-center/infrastructure/servicebus"
)

// TestNewEmailQueue tests construction and the nil-client no-op path.
func TestNewEmailQueue(t *testing.T) {
	queue := servicebus.NewEmailQueue(nil, "")
	assert.NotNil(t, queue)

	err := queue.EnqueueNotificationEmail(context.Background(), &model.Notification{
		UserID:   "u-1",
		Title:    "Deploy failed",
		Severity: model.SeverityCritical,
	})
	assert.NoError(t, err)

	jobs, err := queue.GetMessage(context.Background(), 1)
	assert.NoError(t, err)
	assert.Nil(t, jobs)
}
