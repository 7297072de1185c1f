package newsletter

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/carawynne/inkpress/backend/internal/models"
)

// ErrInvalidEmail rejects subscribe input that is not an address at all.
var ErrInvalidEmail = errors.New("invalid email address")

// UnsubscribeOutcome is what the HTTP boundary reports. A tampered token
// and an unknown or mismatched (email, id) pair both come back invalid so
// nothing leaks about which part of the triple was wrong.
type UnsubscribeOutcome string

const (
	OutcomeSuccess UnsubscribeOutcome = "success"
	OutcomeAlready UnsubscribeOutcome = "already"
	OutcomeInvalid UnsubscribeOutcome = "invalid"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Subscribe creates a subscriber, or reactivates one who unsubscribed
// earlier. The stored email is always lowercased. The bool reports
// whether anything changed; false means the address was already active.
func (s *Service) Subscribe(email string) (*models.Subscriber, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, false, ErrInvalidEmail
	}

	var sub models.Subscriber
	err := s.db.Where("email = ?", email).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sub = models.Subscriber{
			Email:          email,
			IsSubscribed:   true,
			UpdateDateTime: time.Now().UTC(),
		}
		err := s.db.Create(&sub).Error
		if err == nil {
			return &sub, true, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, err
		}
		// Lost the insert race; the unique index is the arbiter, so the
		// row exists now. Re-fetch and fall through to the existing-row
		// handling below.
		if err := s.db.Where("email = ?", email).First(&sub).Error; err != nil {
			return nil, false, err
		}
	} else if err != nil {
		return nil, false, err
	}

	if sub.IsSubscribed {
		return &sub, false, nil
	}

	sub.IsSubscribed = true
	sub.UpdateDateTime = time.Now().UTC()
	if err := s.db.Save(&sub).Error; err != nil {
		return nil, false, err
	}
	return &sub, true, nil
}

// Unsubscribe verifies the signed token then flips the flag. Calling it
// again with the same valid token reports already, never invalid.
func (s *Service) Unsubscribe(email string, id int, token string) (UnsubscribeOutcome, error) {
	if !Verify(email, id, token) {
		return OutcomeInvalid, nil
	}

	var sub models.Subscriber
	err := s.db.First(&sub, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OutcomeInvalid, nil
	}
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(sub.Email, email) {
		return OutcomeInvalid, nil
	}

	if !sub.IsSubscribed {
		return OutcomeAlready, nil
	}

	sub.IsSubscribed = false
	sub.UpdateDateTime = time.Now().UTC()
	if err := s.db.Save(&sub).Error; err != nil {
		return "", err
	}
	return OutcomeSuccess, nil
}
