// models/department.go
package models

const (
	DepartmentsCollection = "departments"
	CategoriesCollection  = "categories"
)

// Department forms a tree via ParentID. RequiresApproval is the default
// approval policy for items that carry no override of their own; nil means
// "not configured" and resolves to true at read time.
type Department struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ParentID         string `json:"parentId,omitempty"`
	Order            int    `json:"order"`
	RequiresApproval *bool  `json:"requiresApproval,omitempty"`
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
