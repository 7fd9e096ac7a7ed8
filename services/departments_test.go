// services/departments_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equiptrack/models"
)

func TestListDepartments(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.seed(t, models.DepartmentsCollection, []models.Department{
		{ID: "dept_b", Name: "Bravo", Order: 1},
		{ID: "dept_a", Name: "Alpha", Order: 1},
		{ID: "dept_c", Name: "Charlie", Order: 0, RequiresApproval: boolPtr(false)},
	})

	got, err := e.svc.ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// (order, name) 排序
	assert.Equal(t, "dept_c", got[0].ID)
	assert.Equal(t, "dept_a", got[1].ID)
	assert.Equal(t, "dept_b", got[2].ID)
	// 默认审批策略在视图里显式化
	require.NotNil(t, got[1].RequiresApproval)
	assert.True(t, *got[1].RequiresApproval)
	assert.False(t, *got[0].RequiresApproval)
}

func TestAddDepartment(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate name under the same parent conflicts", func(t *testing.T) {
		e := newTestEnv(t)
		_, err := e.svc.AddDepartment(ctx, AddDepartmentInput{Name: "Tech"})
		require.NoError(t, err)
		_, err = e.svc.AddDepartment(ctx, AddDepartmentInput{Name: "Tech"})
		assert.Equal(t, KindConflict, KindOf(err))
		// 不同父节点下允许同名
		_, err = e.svc.AddDepartment(ctx, AddDepartmentInput{Name: "Tech", ParentID: "dept_other"})
		assert.NoError(t, err)
	})
}

func TestUpdateDepartment(t *testing.T) {
	ctx := context.Background()

	t.Run("policy change resets item overrides", func(t *testing.T) {
		e := newTestEnv(t)
		e.seed(t, models.DepartmentsCollection, []models.Department{
			{ID: "dept_tech", Name: "Tech", RequiresApproval: boolPtr(true)},
		})
		e.seed(t, models.ItemsCollection, []models.EquipmentItem{
			{ID: "item_a", DepartmentID: "dept_tech", RequiresApproval: boolPtr(false)},
			{ID: "item_b", DepartmentID: "dept_ops", RequiresApproval: boolPtr(false)},
		})

		_, err := e.svc.UpdateDepartment(ctx, "dept_tech", UpdateDepartmentInput{RequiresApproval: boolPtr(false)})
		require.NoError(t, err)

		var items []models.EquipmentItem
		require.NoError(t, e.store.ReadAll(ctx, models.ItemsCollection, &items))
		assert.Nil(t, items[0].RequiresApproval)    // 本部门覆盖被清除
		assert.NotNil(t, items[1].RequiresApproval) // 其他部门不受影响
	})

	t.Run("rename into an existing sibling conflicts", func(t *testing.T) {
		e := newTestEnv(t)
		e.seed(t, models.DepartmentsCollection, []models.Department{
			{ID: "dept_a", Name: "Alpha"},
			{ID: "dept_b", Name: "Bravo"},
		})
		name := "Alpha"
		_, err := e.svc.UpdateDepartment(ctx, "dept_b", UpdateDepartmentInput{Name: &name})
		assert.Equal(t, KindConflict, KindOf(err))
	})

	t.Run("unknown department", func(t *testing.T) {
		e := newTestEnv(t)
		name := "X"
		_, err := e.svc.UpdateDepartment(ctx, "dept_nope", UpdateDepartmentInput{Name: &name})
		assert.Equal(t, KindNotFound, KindOf(err))
	})
}

func TestUpdateDepartmentStructure(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.seed(t, models.DepartmentsCollection, []models.Department{
		{ID: "dept_a", Name: "Alpha", Order: 0},
		{ID: "dept_b", Name: "Bravo", Order: 1},
	})

	got, err := e.svc.UpdateDepartmentStructure(ctx, []StructureUpdate{
		{ID: "dept_b", ParentID: "dept_a", Order: 0},
		{ID: "dept_a", ParentID: "", Order: 1},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "dept_b", got[0].ID)
	assert.Equal(t, "dept_a", got[0].ParentID)
}

func TestDeleteDepartment(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades users and items", func(t *testing.T) {
		e := newTestEnv(t)
		e.seed(t, models.DepartmentsCollection, []models.Department{
			{ID: "dept_tech", Name: "Tech"},
			{ID: "dept_ops", Name: "Ops"},
		})
		e.seed(t, models.UsersCollection, []models.User{
			{ID: "user_1", DepartmentID: "dept_tech"},
			{ID: "user_2", DepartmentID: "dept_ops"},
		})
		e.seed(t, models.ItemsCollection, []models.EquipmentItem{
			{ID: "item_1", DepartmentID: "dept_tech"},
			{ID: "item_2", DepartmentID: "dept_ops"},
		})

		require.NoError(t, e.svc.DeleteDepartment(ctx, "dept_tech"))

		var users []models.User
		require.NoError(t, e.store.ReadAll(ctx, models.UsersCollection, &users))
		require.Len(t, users, 1)
		assert.Equal(t, "user_2", users[0].ID)

		var items []models.EquipmentItem
		require.NoError(t, e.store.ReadAll(ctx, models.ItemsCollection, &items))
		require.Len(t, items, 1)
		assert.Equal(t, "item_2", items[0].ID)
	})

	t.Run("unknown department", func(t *testing.T) {
		e := newTestEnv(t)
		err := e.svc.DeleteDepartment(ctx, "dept_nope")
		assert.Equal(t, KindNotFound, KindOf(err))
	})
}

func TestSyncApprovalPolicies(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.seed(t, models.DepartmentsCollection, []models.Department{
		{ID: "dept_tech", Name: "Tech", RequiresApproval: boolPtr(true)},
		{ID: "dept_ops", Name: "Ops"}, // 无默认值，跳过
	})
	e.seed(t, models.ItemsCollection, []models.EquipmentItem{
		{ID: "item_a", DepartmentID: "dept_tech", RequiresApproval: boolPtr(false)},
		{ID: "item_b", DepartmentID: "dept_ops", RequiresApproval: boolPtr(false)},
	})

	n, err := e.svc.SyncApprovalPolicies(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var items []models.EquipmentItem
	require.NoError(t, e.store.ReadAll(ctx, models.ItemsCollection, &items))
	assert.Nil(t, items[0].RequiresApproval)
	assert.NotNil(t, items[1].RequiresApproval)
}
