package service

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"tracker_collection/configs"
	"tracker_collection/model"
	errorHandler "tracker_collection/pkg/error"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendImportSummaryEmail(recipient string, username string, summary *model.ImportSummary)
	SendImportFailureEmail(recipient string, username string, errorMessage string)
	StopEmailQueue()
}

// EmailService delivers notification mails best effort through a small
// in-memory queue. Send failures are reported to sentry and swallowed, a
// broken mail server must never fail the operation that triggered the mail.
type EmailService struct {
	queue            []emailQueueItem
	queueMux         *sync.Mutex
	dispatchInterval time.Duration
	wg               sync.WaitGroup
	done             atomic.Bool
}

type emailQueueItem struct {
	recipient string
	subject   string
	body      string
}

const emailConsumerCount = 2

func NewEmailService() *EmailService {
	svc := &EmailService{
		queue:            make([]emailQueueItem, 0),
		queueMux:         &sync.Mutex{},
		dispatchInterval: 3 * time.Second,
	}

	for i := 0; i < emailConsumerCount; i++ {
		svc.runEmailQueue()
	}

	return svc
}

//------------------------------------------
//------------------------------------------

func (e *EmailService) SendImportSummaryEmail(recipient string, username string, summary *model.ImportSummary) {
	if recipient == "" {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\n", username)
	fmt.Fprintf(&sb, "Your MAL list import has finished.\n\n")
	fmt.Fprintf(&sb, "Imported: %d\n", summary.Imported)
	fmt.Fprintf(&sb, "Not found: %d\n", summary.NotFound)
	fmt.Fprintf(&sb, "Failed: %d\n", summary.Failed)
	fmt.Fprintf(&sb, "Total: %d\n", summary.Total)

	failedTitles := make([]string, 0)
	for _, d := range summary.Details {
		if d.Outcome == model.OutcomeSkipped || d.Outcome == model.OutcomeNotFound {
			failedTitles = append(failedTitles, fmt.Sprintf("- %s (%s)", d.Title, d.Outcome))
		}
	}
	if len(failedTitles) > 0 {
		sb.WriteString("\nItems that could not be imported:\n")
		sb.WriteString(strings.Join(failedTitles, "\n"))
		sb.WriteString("\n")
	}

	e.enqueue(emailQueueItem{
		recipient: recipient,
		subject:   "Your list import has completed",
		body:      sb.String(),
	})
}

func (e *EmailService) SendImportFailureEmail(recipient string, username string, errorMessage string) {
	if recipient == "" {
		return
	}

	body := fmt.Sprintf("Hi %s,\n\nYour MAL list import could not be completed: %s\n\nPlease try again later.\n", username, errorMessage)
	e.enqueue(emailQueueItem{
		recipient: recipient,
		subject:   "Your list import has failed",
		body:      body,
	})
}

//------------------------------------------
//------------------------------------------

func (e *EmailService) enqueue(item emailQueueItem) {
	e.queueMux.Lock()
	defer e.queueMux.Unlock()
	e.queue = append(e.queue, item)
}

func (e *EmailService) emailQueueHandler() {
	defer e.wg.Done()

	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("recovered from panic: %v\n", r)
			e.runEmailQueue()
		}
	}()

	for {
		if e.done.Load() {
			return
		}

		time.Sleep(e.dispatchInterval)
		e.queueMux.Lock()
		if len(e.queue) == 0 {
			e.queueMux.Unlock()
			continue
		}

		item := e.queue[0]
		e.queue = e.queue[1:]
		e.queueMux.Unlock()

		if err := e.send(item); err != nil {
			errorMessage := fmt.Sprintf("Error on sending email to %s: %v", item.recipient, err)
			errorHandler.SaveError(errorMessage, err)
		}
	}
}

func (e *EmailService) send(item emailQueueItem) error {
	conf := configs.GetConfigs()
	if conf.MailServerHost == "" {
		return fmt.Errorf("mail server not configured")
	}

	message := gomail.NewMessage()
	message.SetHeader("From", conf.MailFrom)
	message.SetHeader("To", item.recipient)
	message.SetHeader("Subject", item.subject)
	message.SetBody("text/plain", item.body)

	dialer := gomail.NewDialer(conf.MailServerHost, conf.MailServerPort, conf.MailUsername, conf.MailPassword)
	return dialer.DialAndSend(message)
}

func (e *EmailService) runEmailQueue() {
	e.wg.Add(1)
	go e.emailQueueHandler()
}

func (e *EmailService) StopEmailQueue() {
	e.done.Store(true)
	e.wg.Wait()
}
