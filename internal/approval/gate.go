package approval

import (
	"go-leave/internal/domain"
	"go-leave/internal/rbac"

	"go.uber.org/zap"
)

// Subject is the part of a request the gate needs.
type Subject struct {
	RequesterID string
	TeamLeadID  *string
}

// Enforcer is satisfied by rbac.Service.
type Enforcer interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
}

// Gate decides who may act on a request. It holds no state of its own and
// only reads the role policy.
type Gate struct {
	enforcer Enforcer
	logger   *zap.Logger
}

func NewGate(enforcer Enforcer, logger ...*zap.Logger) *Gate {
	l := zap.L().Named("approval.gate")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.gate")
	}
	return &Gate{enforcer: enforcer, logger: l}
}

// CanAct reports whether actor may decide step on subject.
func (g *Gate) CanAct(actor domain.Principal, subject Subject, step Step) bool {
	if step == StepTeamLead && subject.TeamLeadID != nil && *subject.TeamLeadID == actor.UserID {
		return true
	}
	return g.allowed(actor, rbac.ResourceLeaveStep, string(step))
}

// CanCancel reports whether actor may cancel subject.
func (g *Gate) CanCancel(actor domain.Principal, subject Subject) bool {
	if actor.UserID == subject.RequesterID {
		return true
	}
	return g.allowed(actor, rbac.ResourceLeave, rbac.ActionCancelAny)
}

// CanReadAll reports whether actor sees requests beyond their own.
func (g *Gate) CanReadAll(actor domain.Principal) bool {
	return g.allowed(actor, rbac.ResourceLeave, rbac.ActionReadAll)
}

func (g *Gate) CanSummarize(actor domain.Principal) bool {
	return g.allowed(actor, rbac.ResourceLeave, rbac.ActionSummary)
}

// a policy lookup failure denies
func (g *Gate) allowed(actor domain.Principal, resource, action string) bool {
	if len(actor.Roles) == 0 {
		return false
	}
	ok, err := g.enforcer.Enforce(rbac.EnforceRequest{
		Roles:    actor.Roles,
		Resource: resource,
		Action:   action,
	})
	if err != nil {
		g.logger.Error("policy lookup failed",
			zap.String("user_id", actor.UserID),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return false
	}
	return ok
}
