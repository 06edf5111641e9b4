package servicebus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"

	"command-center/domain/model"
	"command-center/infrastructure/logger"
)

// NewServiceBus connects to the Service Bus namespace that carries outbound
// email jobs.
func NewServiceBus(ctx context.Context, namespace string) (*azservicebus.Client, error) {
	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	client, err := azservicebus.NewClient(namespace, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("service bus client: %w", err)
	}
	return client, nil
}

// EmailJob is the queue payload consumed by the email worker.
type EmailJob struct {
	UserID   string `json:"user_id"`
	Subject  string `json:"subject"`
	Body     string `json:"body,omitempty"`
	Severity string `json:"severity"`
}

type IEmailQueue interface {
	EnqueueNotificationEmail(ctx context.Context, n *model.Notification) error
	GetMessage(ctx context.Context, count int) ([]EmailJob, error)
}

type EmailQueue struct {
	AzservicebusClient *azservicebus.Client
	queueName          string
}

func NewEmailQueue(azServiceBusClient *azservicebus.Client, queueName string) IEmailQueue {
	if queueName == "" {
		queueName = "notification-emails"
	}
	return &EmailQueue{AzservicebusClient: azServiceBusClient, queueName: queueName}
}

// EnqueueNotificationEmail submits an email job for a notification. A nil
// client degrades to a no-op; email delivery is best effort.
func (q *EmailQueue) EnqueueNotificationEmail(ctx context.Context, n *model.Notification) error {
	if q.AzservicebusClient == nil {
		logger.GetLogger().Info("Service Bus client is nil - skipping email enqueue")
		return nil
	}

	sender, err := q.AzservicebusClient.NewSender(q.queueName, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return err
	}
	defer func(sender *azservicebus.Sender, ctx context.Context) {
		err := sender.Close(ctx)
		if err != nil {
			logger.GetLogger().
				WithField("error", err).
				Error("Error while closing sender.")
		}
	}(sender, ctx)

	job := EmailJob{
		UserID:   n.UserID,
		Subject:  n.Title,
		Severity: n.Severity,
	}
	if n.Body != nil {
		job.Body = *n.Body
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	sbMessage := &azservicebus.Message{
		Body: payload,
	}
	err = sender.SendMessage(ctx, sbMessage, nil)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}

	return nil
}

func (q *EmailQueue) GetMessage(ctx context.Context, count int) ([]EmailJob, error) {
	if q.AzservicebusClient == nil {
		return nil, nil
	}
	receiver, err := q.AzservicebusClient.NewReceiverForQueue(q.queueName, nil)
	if err != nil {
		return nil, err
	}
	defer func(receiver *azservicebus.Receiver, ctx context.Context) {
		err := receiver.Close(ctx)
		if err != nil {
			logger.GetLogger().
				WithField("error", err).
				Error("Error while closing receiver.")
		}
	}(receiver, ctx)

	messages, err := receiver.ReceiveMessages(ctx, count, nil)
	if err != nil {
		return nil, err
	}

	jobs := make([]EmailJob, 0, len(messages))
	for _, message := range messages {
		var job EmailJob
		if err := json.Unmarshal(message.Body, &job); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while decoding email job")
			continue
		}
		jobs = append(jobs, job)

		err = receiver.CompleteMessage(ctx, message, nil)
		if err != nil {
			return jobs, err
		}
	}
	return jobs, nil
}
