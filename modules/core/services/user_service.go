package services

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/kars-hq/kars/modules/core/domain/aggregates/user"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/eventbus"
)

type UserService struct {
	repo      user.Repository
	publisher eventbus.EventBus
}

func NewUserService(repo user.Repository, publisher eventbus.EventBus) *UserService {
	return &UserService{repo: repo, publisher: publisher}
}

func (s *UserService) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, int64, error) {
	if params != nil {
		params.Q = strings.TrimSpace(params.Q)
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *UserService) GetByID(ctx context.Context, id uint) (user.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) Create(ctx context.Context, dto *user.CreateDTO) (user.User, error) {
	if err := authorizeCoreFn(ctx, UsersAuthzObject, "create"); err != nil {
		return user.User{}, err
	}
	if dto == nil {
		return user.User{}, errors.New("missing dto")
	}
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		existing, err := s.repo.GetByEmail(txCtx, dto.Email)
		if err != nil && !errors.Is(err, user.ErrNotFound) {
			return user.User{}, err
		}
		if !existing.IsZero() {
			return user.User{}, user.ErrEmailTaken
		}
		return s.repo.Create(txCtx, dto.ToEntity())
	})
	if err != nil {
		return user.User{}, err
	}
	composables.AfterCommit(ctx, func() { s.publisher.Publish(user.CreatedEvent{Result: created}) })
	return created, nil
}

func (s *UserService) Update(ctx context.Context, id uint, dto *user.UpdateDTO) (user.User, error) {
	if err := authorizeCoreFn(ctx, UsersAuthzObject, "update"); err != nil {
		return user.User{}, err
	}
	if dto == nil {
		return user.User{}, errors.New("missing dto")
	}
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return user.User{}, err
		}
		return s.repo.Update(txCtx, dto.Apply(existing))
	})
	if err != nil {
		return user.User{}, err
	}
	composables.AfterCommit(ctx, func() { s.publisher.Publish(user.UpdatedEvent{Result: updated}) })
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := authorizeCoreFn(ctx, UsersAuthzObject, "delete"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	composables.AfterCommit(ctx, func() { s.publisher.Publish(user.DeletedEvent{ID: id}) })
	return nil
}
