package service

import (
	"github.com/propinspect/inspection-planner/internal/config"
	"github.com/propinspect/inspection-planner/internal/store/model"
)

const DefaultCapacity = 3

// CapacityPolicy holds the maximum number of active inspections a person
// may hold on one day, per role.
type CapacityPolicy struct {
	supervisor int
	inspector  int
}

func NewCapacityPolicy(cfg *config.SchedulingConfig) CapacityPolicy {
	p := CapacityPolicy{supervisor: DefaultCapacity, inspector: DefaultCapacity}
	if cfg == nil {
		return p
	}
	if cfg.SupervisorCapacity > 0 {
		p.supervisor = cfg.SupervisorCapacity
	}
	if cfg.InspectorCapacity > 0 {
		p.inspector = cfg.InspectorCapacity
	}
	return p
}

func (p CapacityPolicy) For(role model.Role) int {
	if role == model.RoleInspector {
		return p.inspector
	}
	return p.supervisor
}

// HasRoom reports whether one more active inspection fits.
func (p CapacityPolicy) HasRoom(role model.Role, active int64) bool {
	return active < int64(p.For(role))
}

func (p CapacityPolicy) Remaining(role model.Role, active int64) int64 {
	remaining := int64(p.For(role)) - active
	if remaining < 0 {
		return 0
	}
	return remaining
}
