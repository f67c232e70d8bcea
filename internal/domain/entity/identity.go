package entity

// Identity is the caller of an operation. The zero value is anonymous.
type Identity struct {
	AccountID  int64
	Name       string
	Privileged bool

	system bool
}

var (
	// Anonymous is the identity of an unauthenticated caller.
	Anonymous = Identity{}

	// System is the identity of scheduled jobs. It owns no account.
	System = Identity{Name: "system", Privileged: true, system: true}
)

// IsAuthenticated reports whether the identity belongs to an account or is System.
func (i Identity) IsAuthenticated() bool {
	return i.AccountID > 0 || i.system
}

// IsAccount reports whether the identity belongs to a stored account.
// System is authenticated but owns no account, so it cannot author content.
func (i Identity) IsAccount() bool {
	return i.AccountID > 0
}

// IsPrivileged reports whether the identity may run privileged operations.
func (i Identity) IsPrivileged() bool {
	return i.IsAuthenticated() && i.Privileged
}

// IdentityOf builds the identity of an account.
func IdentityOf(a *Account) Identity {
	if a == nil {
		return Anonymous
	}
	return Identity{AccountID: a.ID, Name: a.Name, Privileged: a.Privileged}
}
