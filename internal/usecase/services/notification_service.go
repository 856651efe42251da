package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ega-bank/ega-bank-client/internal/adapter/storage"
	"github.com/ega-bank/ega-bank-client/internal/domain"
	"github.com/ega-bank/ega-bank-client/internal/logger"
	"github.com/ega-bank/ega-bank-client/internal/watch"
)

const maxNotifications = 50

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

type Notification struct {
	ID            string           `json:"id"`
	Type          NotificationType `json:"type"`
	Message       string           `json:"message"`
	Timestamp     time.Time        `json:"timestamp"`
	TransactionID string           `json:"transactionId,omitempty"`
}

// NotificationService keeps a capped, newest-first list of user
// notifications, persisted in the local store and replayed to
// subscribers.
type NotificationService struct {
	store *storage.LocalStore

	mu   sync.Mutex
	list *watch.Value[[]Notification]
}

func NewNotificationService(store *storage.LocalStore) *NotificationService {
	s := &NotificationService{
		store: store,
		list:  watch.NewValue([]Notification{}),
	}
	s.restore()
	return s
}

func (s *NotificationService) restore() {
	if s.store == nil {
		return
	}

	var saved []Notification
	found, err := s.store.Get(storage.KeyNotifications, &saved)
	if err != nil {
		logger.Error("notification service restore failed", err, nil)
		return
	}
	if found && len(saved) > 0 {
		s.list.Set(saved)
	}
}

// Add prepends a notification, trimming the list to the cap.
func (s *NotificationService) Add(kind NotificationType, message string, transactionID string) Notification {
	notification := Notification{
		ID:            uuid.NewString(),
		Type:          kind,
		Message:       message,
		Timestamp:     time.Now(),
		TransactionID: transactionID,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.list.Get()
	updated := make([]Notification, 0, len(current)+1)
	updated = append(updated, notification)
	updated = append(updated, current...)
	if len(updated) > maxNotifications {
		updated = updated[:maxNotifications]
	}
	s.publish(updated)
	return notification
}

// AddTransaction formats and records the standard message for a
// completed banking operation.
func (s *NotificationService) AddTransaction(txType domain.TransactionType, montant decimal.Decimal, numeroCompte string) {
	if numeroCompte == "" || montant.IsZero() {
		logger.Warn("notification service skipped transaction notification with missing data", logger.Fields{
			"typeTransaction": string(txType),
			"numeroCompte":    numeroCompte,
		})
		return
	}

	amount := montant.Abs().StringFixed(2) + " €"
	var message string
	switch txType {
	case domain.TransactionDepot:
		message = fmt.Sprintf("Dépôt de %s effectué sur le compte %s", amount, numeroCompte)
	case domain.TransactionRetrait:
		message = fmt.Sprintf("Retrait de %s effectué sur le compte %s", amount, numeroCompte)
	case domain.TransactionVirement:
		message = fmt.Sprintf("Virement de %s effectué depuis le compte %s", amount, numeroCompte)
	default:
		message = fmt.Sprintf("Transaction de %s effectuée sur le compte %s", amount, numeroCompte)
	}

	s.Add(NotificationSuccess, message, "")
}

func (s *NotificationService) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.list.Get()
	updated := make([]Notification, 0, len(current))
	for _, n := range current {
		if n.ID != id {
			updated = append(updated, n)
		}
	}
	s.publish(updated)
}

func (s *NotificationService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publish([]Notification{})
}

func (s *NotificationService) Notifications() []Notification {
	return s.list.Get()
}

func (s *NotificationService) Subscribe() (<-chan []Notification, func()) {
	return s.list.Subscribe()
}

// publish replaces the list and persists it. Callers must hold s.mu.
func (s *NotificationService) publish(list []Notification) {
	s.list.Set(list)
	if s.store != nil {
		if err := s.store.Put(storage.KeyNotifications, list); err != nil {
			logger.Error("notification service persist failed", err, nil)
		}
	}
}
