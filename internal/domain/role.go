package domain

type Role string

const (
	RoleUser   Role = "USER"
	RoleEditor Role = "EDITOR"
	RoleAdmin  Role = "ADMIN"
)

type Permission string

const (
	PermAccessAdmin         Permission = "access_admin"
	PermManageEvents        Permission = "manage_events"
	PermManagePosts         Permission = "manage_posts"
	PermManageRegistrations Permission = "manage_registrations"
	PermManageUsers         Permission = "manage_users"
)

// rolePerms 闭合权限表：边界处查一次，不在业务代码里散落角色判断
var rolePerms = map[Role]map[Permission]bool{
	RoleUser: {},
	RoleEditor: {
		PermAccessAdmin:         true,
		PermManageEvents:        true,
		PermManagePosts:         true,
		PermManageRegistrations: true,
	},
	RoleAdmin: {
		PermAccessAdmin:         true,
		PermManageEvents:        true,
		PermManagePosts:         true,
		PermManageRegistrations: true,
		PermManageUsers:         true,
	},
}

func (r Role) Can(p Permission) bool { return rolePerms[r][p] }

func (r Role) Valid() bool {
	_, ok := rolePerms[r]
	return ok
}

func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}
