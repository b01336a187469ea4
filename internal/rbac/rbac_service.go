package rbac

import (
	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

// Roles carried in JWT claims. A single deployment serves one company, so
// authorization is purely role-based.
const (
	RoleAdmin    = "ADMIN"
	RoleForeman  = "FOREMAN"
	RoleEmployee = "EMPLOYEE"
)

type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

// NewService loads the casbin model and policy from disk. Policies are
// static per deployment; there is no runtime policy management surface.
func NewService(modelPath, policyPath string, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	enforcer, err := casbin.NewEnforcer(modelPath, policyPath)
	if err != nil {
		return nil, err
	}

	return &service{enforcer: enforcer, logger: l}, nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	allowed, err := s.enforcer.Enforce(role, resource, action)
	if err != nil {
		s.logger.Error("enforce failed",
			zap.String("role", role),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return false, err
	}
	return allowed, nil
}
