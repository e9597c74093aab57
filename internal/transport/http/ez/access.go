package ez

// Access 描述一个动作的访问要求。零值为公开。
// 受保护的 Access 只能由 Auth 构造，并且总是按 token → role 的顺序执行两道 guard。
type Access struct {
	protected bool
	roles     []string
}

// Public 不经过任何 guard
func Public() Access { return Access{} }

// Auth 要求合法 token；给定 roles 时还要求用户至少持有其中之一（OR）
func Auth(roles ...string) Access {
	return Access{protected: true, roles: append([]string(nil), roles...)}
}

func (a Access) Protected() bool { return a.protected }

func (a Access) Roles() []string { return append([]string(nil), a.roles...) }
