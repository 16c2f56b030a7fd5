package user

import (
	"context"
	"errors"

	"go-leave/internal/domain"
	"go-leave/internal/shared/apperror"
	usererrors "go-leave/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Directory resolves who a caller is: their roles and their team lead.
type Directory interface {
	GetPrincipal(ctx context.Context, userID string) (domain.Principal, error)
	GetMe(ctx context.Context, userID string) (MeResponse, error)
	ListActiveIDs(ctx context.Context) ([]string, error)
}

type directory struct {
	repo   Repository
	logger *zap.Logger
}

func NewDirectory(repo Repository, logger ...*zap.Logger) Directory {
	l := zap.L().Named("user.directory")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.directory")
	}
	return &directory{repo: repo, logger: l}
}

func (d *directory) GetPrincipal(ctx context.Context, userID string) (domain.Principal, error) {
	u, roles, err := d.load(ctx, userID)
	if err != nil {
		return domain.Principal{}, err
	}

	p := domain.Principal{UserID: u.ID.String(), Roles: roles}
	if u.TeamLeadID != nil {
		lead := u.TeamLeadID.String()
		p.TeamLeadID = &lead
	}
	return p, nil
}

func (d *directory) GetMe(ctx context.Context, userID string) (MeResponse, error) {
	u, roles, err := d.load(ctx, userID)
	if err != nil {
		return MeResponse{}, err
	}

	resp := MeResponse{
		ID:       u.ID.String(),
		FullName: u.FullName,
		Email:    u.Email,
		Roles:    roles,
	}
	if u.TeamLeadID != nil {
		lead := u.TeamLeadID.String()
		resp.TeamLeadID = &lead
	}
	return resp, nil
}

func (d *directory) ListActiveIDs(ctx context.Context) ([]string, error) {
	ids, err := d.repo.ListActiveIDs(ctx)
	if err != nil {
		d.logger.Error("list active users failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}
	return ids, nil
}

// load returns an active user and their roles. Every user holds EMPLOYEE
// whether or not it is stored.
func (d *directory) load(ctx context.Context, userID string) (*User, []string, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, nil, usererrors.ErrInvalidUserID
	}

	u, err := d.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, usererrors.ErrUserNotFound
		}
		d.logger.Error("find user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, nil, apperror.Storage(err)
	}
	if !u.IsActive {
		return nil, nil, usererrors.ErrUserInactive
	}

	stored, err := d.repo.GetRoles(ctx, userID)
	if err != nil {
		d.logger.Error("get user roles failed", zap.String("user_id", userID), zap.Error(err))
		return nil, nil, apperror.Storage(err)
	}

	roles := []string{domain.RoleEmployee}
	for _, r := range stored {
		if r != domain.RoleEmployee {
			roles = append(roles, r)
		}
	}
	return u, roles, nil
}
