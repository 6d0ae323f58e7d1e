package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"recycling-admin-backend/internal/model"
	"recycling-admin-backend/internal/store"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func newAlertStore() *store.Store {
	seed := store.DefaultSeed()
	seed.Alerts = []model.Alert{
		{ID: "a-101", Type: "满溢预警", DeviceID: "DEV001", DeviceName: "朝阳区望京-1", Status: model.AlertPending},
		{ID: "a-102", Type: "温度异常", DeviceID: "DEV002", Status: model.AlertPending},
	}
	return store.New(seed)
}

func TestWorkerPool_Dispatch(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, newAlertStore().Alerts, store.NewGormSubscriptions(db), &webpush.Options{}, zap.NewNop())

	assert.True(t, wp.Dispatch("a-101"))

	select {
	case job := <-wp.jobs:
		assert.Equal(t, "a-101", job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchNeverBlocks(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, newAlertStore().Alerts, store.NewGormSubscriptions(db), &webpush.Options{}, zap.NewNop())

	for i := 0; i < cap(wp.jobs); i++ {
		require.True(t, wp.Dispatch("a-101"))
	}
	assert.False(t, wp.Dispatch("a-102"))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "设备 朝阳区望京-1 告警：满溢预警", Message(model.Alert{DeviceID: "DEV001", DeviceName: "朝阳区望京-1", Type: "满溢预警"}))
	assert.Equal(t, "设备 DEV002 告警：温度异常", Message(model.Alert{DeviceID: "DEV002", Type: "温度异常"}))
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent(), goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))

	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, newAlertStore().Alerts, store.NewGormSubscriptions(gormDB), &webpush.Options{}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	subscriptionRows := func(endpoint string) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
			AddRow(endpoint, "test_p256dh", "test_auth", time.Now())
	}

	// --- Test Case: One subscription found, notification sent ---
	t.Run("sends notification for one subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				assert.Equal(t, "https://example.com/push", sub.Endpoint)
				assert.Equal(t, "test_p256dh", sub.Keys.P256dh)
				assert.Equal(t, "设备 朝阳区望京-1 告警：满溢预警", string(payload))
				wg.Done()
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "push_subscriptions"`)).
			WillReturnRows(subscriptionRows("https://example.com/push"))

		wp.Dispatch("a-101")
		wg.Wait()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	// --- Test Case: Subscription expired, should be deleted ---
	t.Run("deletes expired subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				assert.Equal(t, "设备 DEV002 告警：温度异常", string(payload))
				return &http.Response{
					StatusCode: http.StatusGone,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "push_subscriptions"`)).
			WillReturnRows(subscriptionRows("https://example.com/expired"))
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		go func() {
			defer wg.Done()
			assert.Eventually(t, func() bool { return mock.ExpectationsWereMet() == nil }, time.Second, 10*time.Millisecond)
		}()

		wp.Dispatch("a-102")
		wg.Wait()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	// --- Test Case: Alert deleted before delivery, nothing is queried ---
	t.Run("skips alerts that no longer exist", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				t.Error("no notification expected")
				return nil, nil
			},
		}

		wp.Dispatch("a-999")
		time.Sleep(50 * time.Millisecond)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	cancel()
}
