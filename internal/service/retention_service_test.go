package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formpilot/internal/model"
)

func TestRetentionDays(t *testing.T) {
	ctx := context.Background()
	userRepo := newStubUserRepo()
	svc := NewRetentionService(userRepo, newStubResponseRepo())
	user := userRepo.add(&model.User{Email: "a@b.co", DataRetentionDays: 30})

	days, err := svc.Days(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, days)

	require.NoError(t, svc.SetDays(ctx, user.ID, 7))
	assert.Equal(t, 7, user.DataRetentionDays)

	assert.ErrorIs(t, svc.SetDays(ctx, user.ID, -1), ErrInvalidInput)

	_, err = svc.Days(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRunCleanup(t *testing.T) {
	ctx := context.Background()
	userRepo := newStubUserRepo()
	responseRepo := newStubResponseRepo()
	svc := NewRetentionService(userRepo, responseRepo)

	sweeper := userRepo.add(&model.User{Email: "sweep@b.co", DataRetentionDays: 7})
	keeper := userRepo.add(&model.User{Email: "keep@b.co", DataRetentionDays: 0})

	old := time.Now().AddDate(0, 0, -10)
	fresh := time.Now().AddDate(0, 0, -1)
	require.NoError(t, responseRepo.Create(ctx, &model.Response{FormID: "f1", OwnerID: sweeper.ID, CreatedAt: old}))
	require.NoError(t, responseRepo.Create(ctx, &model.Response{FormID: "f1", OwnerID: sweeper.ID, CreatedAt: fresh}))
	require.NoError(t, responseRepo.Create(ctx, &model.Response{FormID: "f2", OwnerID: keeper.ID, CreatedAt: old}))

	svc.RunCleanup(ctx)

	assert.Len(t, responseRepo.byForm["f1"], 1)
	assert.Equal(t, fresh, responseRepo.byForm["f1"][0].CreatedAt)
	// Retention disabled means nothing is swept
	assert.Len(t, responseRepo.byForm["f2"], 1)
}
