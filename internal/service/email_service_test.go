package service

import (
	"sync"
	"testing"
	"time"
)

func TestStopEmailQueueStopsConsumers(t *testing.T) {
	svc := &EmailService{
		queue:            make([]emailQueueItem, 0),
		queueMux:         &sync.Mutex{},
		dispatchInterval: 5 * time.Millisecond,
	}
	svc.runEmailQueue()
	svc.runEmailQueue()

	stopped := make(chan struct{})
	go func() {
		svc.StopEmailQueue()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("email queue consumers did not stop")
	}
}
