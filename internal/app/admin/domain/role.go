package domain

// Role is an admin user's permission level.
type Role string

// Role constants, least to most privileged.
const (
	RoleViewer    Role = "viewer"
	RoleEditor    Role = "editor"
	RolePublisher Role = "publisher"
	RoleAdmin     Role = "admin"
)

// Action is something an admin user can be allowed to do.
type Action string

// Action constants checked by the workflow and CRUD usecases.
const (
	ActionProductEdit    Action = "product.edit"
	ActionProductSubmit  Action = "product.submit"
	ActionProductVerify  Action = "product.verify"
	ActionProductPublish Action = "product.publish"
	ActionProductArchive Action = "product.archive"
	ActionCatalogManage  Action = "catalog.manage"
	ActionAuditView      Action = "audit.view"
	ActionAdminManage    Action = "admin.manage"
)

// rolePermissions is the static permission table. Roles do not
// inherit; each row lists everything the role may do.
var rolePermissions = map[Role]map[Action]bool{
	RoleViewer: {
		ActionAuditView: true,
	},
	RoleEditor: {
		ActionProductEdit:   true,
		ActionProductSubmit: true,
		ActionCatalogManage: true,
		ActionAuditView:     true,
	},
	RolePublisher: {
		ActionProductEdit:    true,
		ActionProductSubmit:  true,
		ActionProductVerify:  true,
		ActionProductPublish: true,
		ActionProductArchive: true,
		ActionCatalogManage:  true,
		ActionAuditView:      true,
	},
	RoleAdmin: {
		ActionProductEdit:    true,
		ActionProductSubmit:  true,
		ActionProductVerify:  true,
		ActionProductPublish: true,
		ActionProductArchive: true,
		ActionCatalogManage:  true,
		ActionAuditView:      true,
		ActionAdminManage:    true,
	},
}

// AllRoles returns every valid role, least privileged first.
func AllRoles() []Role {
	return []Role{RoleViewer, RoleEditor, RolePublisher, RoleAdmin}
}

// IsValid checks if the role is one of the defined constants.
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Can reports whether the role allows the action.
func (r Role) Can(action Action) bool {
	return rolePermissions[r][action]
}
