package models

import "time"

const (
	GroupHotelOwner = "hotel_owner"
	GroupCustomer   = "customer"
)

// Group is a named permission set. Users are placed in the group matching
// their role by the reconciliation step in the services package.
type Group struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Name        string            `gorm:"size:150;uniqueIndex" json:"name"`
	Permissions []GroupPermission `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"permissions"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (Group) TableName() string { return "permission_groups" }

type GroupPermission struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	GroupID    uint   `gorm:"not null;index:idx_group_permission,unique" json:"group_id"`
	Permission string `gorm:"size:150;not null;index:idx_group_permission,unique" json:"permission"`
}

// GroupForRole names the group a role belongs to; unassigned users get none.
func GroupForRole(r Role) string {
	switch r {
	case RoleOwner:
		return GroupHotelOwner
	case RoleCustomer:
		return GroupCustomer
	}
	return ""
}

// DefaultGroupPermissions is seeded on start-up.
var DefaultGroupPermissions = map[string][]string{
	GroupHotelOwner: {"hotel.add", "hotel.change", "hotel.delete", "hotel.view", "booking.view"},
	GroupCustomer:   {"booking.add", "booking.change", "booking.view", "hotel.view"},
}
