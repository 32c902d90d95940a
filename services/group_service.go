package services

import (
	"context"
	"fmt"
	"sort"

	"hotel-management/models"

	"gorm.io/gorm"
)

// GroupService keeps a user's permission groups in line with their role.
type GroupService struct {
	DB *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{DB: db}
}

// Reconcile puts the user in exactly the group for their role and removes
// any other role group. Running it twice changes nothing.
func (s *GroupService) Reconcile(ctx context.Context, user *models.User) error {
	db := s.DB.WithContext(ctx)

	var roleGroups []models.Group
	if err := db.Where("name IN ?", []string{models.GroupHotelOwner, models.GroupCustomer}).
		Find(&roleGroups).Error; err != nil {
		return fmt.Errorf("failed to load role groups: %w", err)
	}

	var current []models.Group
	if err := db.Model(user).Association("Groups").Find(&current); err != nil {
		return fmt.Errorf("failed to load groups of user %d: %w", user.ID, err)
	}

	want := models.GroupForRole(user.Role)
	var desired []models.Group
	for _, g := range current {
		if g.Name != models.GroupHotelOwner && g.Name != models.GroupCustomer {
			desired = append(desired, g)
		}
	}
	if want != "" {
		group := models.Group{Name: want}
		if err := db.Where("name = ?", want).FirstOrCreate(&group).Error; err != nil {
			return fmt.Errorf("failed to ensure group %s: %w", want, err)
		}
		desired = append(desired, group)
	}

	if sameGroups(current, desired) {
		return nil
	}
	if len(desired) == 0 {
		if err := db.Model(user).Association("Groups").Clear(); err != nil {
			return fmt.Errorf("failed to clear groups of user %d: %w", user.ID, err)
		}
		return nil
	}
	if err := db.Model(user).Association("Groups").Replace(desired); err != nil {
		return fmt.Errorf("failed to set groups of user %d: %w", user.ID, err)
	}
	return nil
}

func sameGroups(a, b []models.Group) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[uint]bool, len(a))
	for _, g := range a {
		seen[g.ID] = true
	}
	for _, g := range b {
		if !seen[g.ID] {
			return false
		}
	}
	return true
}

// GroupNames lists the names of the user's groups, sorted.
func (s *GroupService) GroupNames(ctx context.Context, userID uint) ([]string, error) {
	var names []string
	err := s.DB.WithContext(ctx).
		Table("permission_groups").
		Joins("JOIN user_groups ON user_groups.group_id = permission_groups.id").
		Where("user_groups.user_id = ?", userID).
		Order("permission_groups.name").
		Pluck("permission_groups.name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load group names: %w", err)
	}
	return names, nil
}

// Permissions collects the permissions granted through the user's groups.
func (s *GroupService) Permissions(ctx context.Context, userID uint) ([]string, error) {
	var perms []string
	err := s.DB.WithContext(ctx).
		Table("group_permissions").
		Distinct("group_permissions.permission").
		Joins("JOIN user_groups ON user_groups.group_id = group_permissions.group_id").
		Where("user_groups.user_id = ?", userID).
		Pluck("group_permissions.permission", &perms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load permissions: %w", err)
	}
	sort.Strings(perms)
	return perms, nil
}

// HasPermission reports whether any of the user's groups grants perm.
func (s *GroupService) HasPermission(ctx context.Context, userID uint, perm string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Table("group_permissions").
		Joins("JOIN user_groups ON user_groups.group_id = group_permissions.group_id").
		Where("user_groups.user_id = ? AND group_permissions.permission = ?", userID, perm).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check permission %s: %w", perm, err)
	}
	return count > 0, nil
}
