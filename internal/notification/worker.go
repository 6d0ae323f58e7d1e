package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"recycling-admin-backend/internal/model"
	"recycling-admin-backend/internal/store"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool pushes newly raised alerts to every subscribed admin browser.
type WorkerPool struct {
	size    int
	jobs    chan string
	alerts  *store.Collection[model.Alert]
	subs    store.Subscriptions
	webpush *webpush.Options
	sender  NotificationSender
	log     *zap.Logger
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, alerts *store.Collection[model.Alert], subs store.Subscriptions, webpushOptions *webpush.Options, log *zap.Logger) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size*16),
		alerts:  alerts,
		subs:    subs,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
		log:     log.Named("notification"),
	}
}

// SetSender replaces the push transport.
func (wp *WorkerPool) SetSender(sender NotificationSender) {
	wp.sender = sender
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.log.Debug("worker started", zap.Int("worker", id))
	for {
		select {
		case alertID := <-wp.jobs:
			wp.sendNotificationsForAlert(ctx, alertID)
		case <-ctx.Done():
			wp.log.Debug("worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

// Dispatch queues an alert for delivery. It never blocks; when the queue is
// full the alert is dropped and stays visible in the dashboard only.
func (wp *WorkerPool) Dispatch(alertID string) bool {
	select {
	case wp.jobs <- alertID:
		return true
	default:
		wp.log.Warn("notification queue full, dropping alert", zap.String("alert", alertID))
		return false
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan string {
	return wp.jobs
}

// Message renders the push payload for an alert.
func Message(a model.Alert) string {
	label := a.DeviceName
	if label == "" {
		label = a.DeviceID
	}
	return fmt.Sprintf("设备 %s 告警：%s", label, a.Type)
}

func (wp *WorkerPool) sendNotificationsForAlert(ctx context.Context, alertID string) {
	alert, ok := wp.alerts.Get(alertID)
	if !ok {
		wp.log.Info("alert gone before notification", zap.String("alert", alertID))
		return
	}

	subscriptions, err := wp.subs.All(ctx)
	if err != nil {
		wp.log.Error("failed to fetch subscriptions", zap.String("alert", alertID), zap.Error(err))
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	wp.log.Info("sending alert notifications", zap.String("alert", alertID), zap.Int("subscriptions", len(subscriptions)))
	payload := []byte(Message(alert))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.log.Warn("failed to send notification", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		wp.log.Info("subscription expired, deleting", zap.String("endpoint", sub.Endpoint))
		if err := wp.subs.Delete(ctx, sub.Endpoint); err != nil {
			wp.log.Warn("failed to delete expired subscription", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}
}
