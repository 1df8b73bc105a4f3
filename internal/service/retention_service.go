package service

import (
	"context"
	"errors"
	"log"
	"time"

	"formpilot/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// RetentionService periodically deletes responses older than each
// owner's retention window. Owners with DataRetentionDays == 0 are
// never swept.
type RetentionService struct {
	userRepo     repository.UserRepo
	responseRepo repository.ResponseRepo
	interval     time.Duration
	stop         chan struct{}
}

// NewRetentionService creates a retention sweeper running once per day
func NewRetentionService(userRepo repository.UserRepo, responseRepo repository.ResponseRepo) *RetentionService {
	return &RetentionService{
		userRepo:     userRepo,
		responseRepo: responseRepo,
		interval:     24 * time.Hour,
		stop:         make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called
func (s *RetentionService) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.RunCleanup(context.Background())
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop terminates the sweep loop
func (s *RetentionService) Stop() {
	close(s.stop)
}

// Days returns the retention window for a user
func (s *RetentionService) Days(ctx context.Context, userID string) (int, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, ErrUserNotFound
	}
	return user.DataRetentionDays, nil
}

// SetDays updates the retention window for a user. 0 disables the sweep.
func (s *RetentionService) SetDays(ctx context.Context, userID string, days int) error {
	if days < 0 {
		return ErrInvalidInput
	}
	return s.userRepo.SetRetentionDays(ctx, userID, days)
}

// RunCleanup performs one retention sweep across all users
func (s *RetentionService) RunCleanup(ctx context.Context) {
	log.Println("Running data cleanup")
	users, err := s.userRepo.ListWithRetention(ctx)
	if err != nil {
		log.Printf("retention sweep: listing users failed: %v", err)
		return
	}

	for _, user := range users {
		threshold := time.Now().AddDate(0, 0, -user.DataRetentionDays)
		deleted, err := s.responseRepo.DeleteExpired(ctx, user.ID, threshold)
		if err != nil {
			log.Printf("retention sweep for user %s failed: %v", user.ID, err)
			continue
		}
		if deleted > 0 {
			log.Printf("retention sweep: deleted %d responses for user %s", deleted, user.ID)
		}
	}
}
