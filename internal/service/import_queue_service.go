package service

import (
	"context"
	"encoding/json"
	"fmt"
	"tracker_collection/configs"
	"tracker_collection/model"
	errorHandler "tracker_collection/pkg/error"

	amqp "github.com/rabbitmq/amqp091-go"
)

type IImportQueueService interface {
	EnqueueImportJob(ctx context.Context, job *model.ImportJob) error
	StartConsumer() error
	Close()
}

// ImportQueueService moves import jobs through rabbitmq so a long batch never
// blocks an http request. Delivery is at-least-once: a retried job reruns the
// whole batch from the top, which is safe because the per-item upsert is
// idempotent and the summary email is gated by a once-per-job cache flag.
type ImportQueueService struct {
	conn        *amqp.Connection
	channel     *amqp.Channel
	queueName   string
	maxAttempts int
	importSvc   IImportService
	emailSvc    IEmailService
}

const attemptHeader = "x-attempt"

func NewImportQueueService(importSvc IImportService, emailSvc IEmailService) (*ImportQueueService, error) {
	conn, err := amqp.Dial(configs.GetConfigs().RabbitMqUrl)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	queueName := configs.GetConfigs().ImportQueueName
	_, err = channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &ImportQueueService{
		conn:        conn,
		channel:     channel,
		queueName:   queueName,
		maxAttempts: configs.GetConfigs().ImportJobMaxAttempts,
		importSvc:   importSvc,
		emailSvc:    emailSvc,
	}, nil
}

//------------------------------------------
//------------------------------------------

func (q *ImportQueueService) EnqueueImportJob(ctx context.Context, job *model.ImportJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}

	err = q.channel.PublishWithContext(ctx, "", q.queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    job.JobId,
		Headers:      amqp.Table{attemptHeader: int32(1)},
		Body:         body,
	})
	if err != nil {
		return err
	}

	SetImportProgressCache(job.JobId, &model.ImportProgress{
		JobId: job.JobId,
		State: model.ImportStateQueued,
		Total: len(job.Items),
	})

	return nil
}

func (q *ImportQueueService) StartConsumer() error {
	if err := q.channel.Qos(1, 0, false); err != nil {
		return err
	}

	deliveries, err := q.channel.Consume(q.queueName, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		for delivery := range deliveries {
			q.handleDelivery(delivery)
		}
	}()

	return nil
}

func (q *ImportQueueService) handleDelivery(delivery amqp.Delivery) {
	var job model.ImportJob
	if err := json.Unmarshal(delivery.Body, &job); err != nil {
		errorMessage := fmt.Sprintf("Error on unmarshaling import job: %v", err)
		errorHandler.SaveError(errorMessage, err)
		_ = delivery.Ack(false)
		return
	}

	attempt := deliveryAttempt(delivery)

	err := q.runJob(&job)
	if err == nil {
		_ = delivery.Ack(false)
		return
	}

	errorMessage := fmt.Sprintf("Error on running import job %s (attempt %d): %v", job.JobId, attempt, err)
	errorHandler.SaveError(errorMessage, err)

	if attempt >= q.maxAttempts {
		// the failure email goes out only when the job is truly given up on
		q.emailSvc.SendImportFailureEmail(job.UserEmail, job.Username, err.Error())
		SetImportProgressCache(job.JobId, &model.ImportProgress{
			JobId:   job.JobId,
			State:   model.ImportStateFailed,
			Total:   len(job.Items),
			Percent: 0,
		})
		_ = delivery.Ack(false)
		return
	}

	if requeueErr := q.requeue(&job, delivery.Body, attempt+1); requeueErr != nil {
		errorMessage := fmt.Sprintf("Error on requeueing import job %s: %v", job.JobId, requeueErr)
		errorHandler.SaveError(errorMessage, requeueErr)
		_ = delivery.Nack(false, true)
		return
	}
	_ = delivery.Ack(false)
}

func (q *ImportQueueService) runJob(job *model.ImportJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered from panic: %v", r)
		}
	}()

	total := len(job.Items)
	SetImportProgressCache(job.JobId, &model.ImportProgress{
		JobId: job.JobId,
		State: model.ImportStateProcessing,
		Total: total,
	})

	onProgress := func(processed int, jobTotal int) {
		percent := 0
		if jobTotal > 0 {
			percent = processed * 100 / jobTotal
		}
		SetImportProgressCache(job.JobId, &model.ImportProgress{
			JobId:     job.JobId,
			State:     model.ImportStateProcessing,
			Processed: processed,
			Total:     jobTotal,
			Percent:   percent,
		})
	}

	summary := q.importSvc.ImportBatch(context.Background(), job.UserId, job.Items, onProgress)

	if !GetImportNotifiedFlag(job.JobId) {
		q.emailSvc.SendImportSummaryEmail(job.UserEmail, job.Username, summary)
		SetImportNotifiedFlag(job.JobId)
	}

	SetImportProgressCache(job.JobId, &model.ImportProgress{
		JobId:     job.JobId,
		State:     model.ImportStateCompleted,
		Processed: total,
		Total:     total,
		Percent:   100,
	})

	return nil
}

//------------------------------------------
//------------------------------------------

func (q *ImportQueueService) requeue(job *model.ImportJob, body []byte, attempt int) error {
	return q.channel.PublishWithContext(context.Background(), "", q.queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    job.JobId,
		Headers:      amqp.Table{attemptHeader: int32(attempt)},
		Body:         body,
	})
}

func deliveryAttempt(delivery amqp.Delivery) int {
	if delivery.Headers != nil {
		switch v := delivery.Headers[attemptHeader].(type) {
		case int32:
			return int(v)
		case int64:
			return int(v)
		case int:
			return v
		}
	}
	return 1
}

func (q *ImportQueueService) Close() {
	if q.channel != nil {
		_ = q.channel.Close()
	}
	if q.conn != nil {
		_ = q.conn.Close()
	}
}
