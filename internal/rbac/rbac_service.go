package rbac

import (
	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Service interface {
	Enforce(req EnforceRequest) (bool, error)
	Permissions(roles []string) ([]PermissionResponse, error)
}

type service struct {
	enforcer *casbin.SyncedEnforcer
	logger   *zap.Logger
}

func NewService(enforcer *casbin.SyncedEnforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{enforcer: enforcer, logger: l}
}

// Enforce allows the request when any of the roles is allowed.
func (s *service) Enforce(req EnforceRequest) (bool, error) {
	for _, role := range req.Roles {
		allowed, err := s.enforcer.Enforce(role, req.Resource, req.Action)
		if err != nil {
			s.logger.Error("rbac enforce failed",
				zap.String("role", role),
				zap.String("resource", req.Resource),
				zap.String("action", req.Action),
				zap.Error(err),
			)
			return false, err
		}
		if allowed {
			return true, nil
		}
	}

	s.logger.Debug("rbac enforce denied",
		zap.Strings("roles", req.Roles),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
	)
	return false, nil
}

func (s *service) Permissions(roles []string) ([]PermissionResponse, error) {
	perms := make([]PermissionResponse, 0, len(catalog))
	for _, p := range catalog {
		allowed, err := s.Enforce(EnforceRequest{Roles: roles, Resource: p.Resource, Action: p.Action})
		if err != nil {
			return nil, err
		}
		if allowed {
			perms = append(perms, p)
		}
	}
	return perms, nil
}
