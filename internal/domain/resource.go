package domain

import "fmt"

type ResourceKind string

const (
	ResourceStaff     ResourceKind = "staff"
	ResourceEquipment ResourceKind = "equipment"
	ResourceRoom      ResourceKind = "room"
)

func (k ResourceKind) Valid() bool {
	switch k {
	case ResourceStaff, ResourceEquipment, ResourceRoom:
		return true
	}
	return false
}

// Exclusive reports whether the kind carries a physical-custody lifecycle:
// at most one open assignment at a time. Staff and rooms are still
// single-occupancy for scheduling, but only equipment is checked out.
func (k ResourceKind) Exclusive() bool {
	return k == ResourceEquipment
}

// ResourceRef identifies one concrete resource.
type ResourceRef struct {
	Kind ResourceKind `json:"kind"`
	ID   int64        `json:"id"`
}

// LockKey is the advisory-lock key guarding check-then-commit for this resource.
func (r ResourceRef) LockKey() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}
