// store/seed.go
package store

import (
	"context"

	"equiptrack/config"
	"equiptrack/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Init seeds default departments and categories into an empty store and,
// when configured, bootstraps the first super admin account.
func Init(ctx context.Context, s Store, boot config.BootstrapConfig, logger *zap.Logger) error {
	depts, err := ReadAll[models.Department](ctx, s, models.DepartmentsCollection)
	if err != nil {
		return err
	}
	var adminDeptID string
	if len(depts) == 0 {
		depts = []models.Department{
			{ID: "dept_admin", Name: "Administration"},
			{ID: "dept_tech", Name: "Technology", Order: 1},
			{ID: "dept_ops", Name: "Operations", Order: 2},
		}
		if err := s.WriteAll(ctx, models.DepartmentsCollection, depts); err != nil {
			return err
		}
		logger.Info("seeded default departments")
	}
	adminDeptID = depts[0].ID

	cats, err := ReadAll[models.Category](ctx, s, models.CategoriesCollection)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		cats = []models.Category{
			{ID: "cat_computer", Name: "Computers & Accessories", Color: "#FF5733"},
			{ID: "cat_camera", Name: "Camera Gear", Color: "#33FF57"},
			{ID: "cat_sound", Name: "Audio Equipment", Color: "#3357FF"},
		}
		if err := s.WriteAll(ctx, models.CategoriesCollection, cats); err != nil {
			return err
		}
		logger.Info("seeded default categories")
	}

	users, err := ReadAll[models.User](ctx, s, models.UsersCollection)
	if err != nil {
		return err
	}
	if len(users) == 0 && boot.Contact != "" && boot.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(boot.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		name := boot.Name
		if name == "" {
			name = "System Administrator"
		}
		admin := models.User{
			ID:           "user_" + uuid.NewString(),
			Name:         name,
			Contact:      boot.Contact,
			DepartmentID: adminDeptID,
			Role:         models.RoleSuperAdmin,
			Status:       models.UserActive,
			PasswordHash: string(hash),
		}
		if err := s.WriteAll(ctx, models.UsersCollection, []models.User{admin}); err != nil {
			return err
		}
		logger.Info("no users found, bootstrapped first super admin",
			zap.String("contact", boot.Contact))
	}
	return nil
}
