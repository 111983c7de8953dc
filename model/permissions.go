package model

// Role names one grantable permission category.
type Role int

const (
	RoleUnknown Role = iota
	RolePostQuotes
	RoleEditQuotes
	RoleDeleteQuotes
	RoleListUsers
	RoleApproveQuotes
	RoleSetFlags

	// RoleLoggedIn is a pseudo-role: it requires an authenticated
	// session but carries no permission bit.
	RoleLoggedIn
)

// Flag is the wire value of a single Role inside a packed bitmask.
// Flag values are persisted and round-trip through form submissions;
// they are fixed for the lifetime of the process.
type Flag int64

const (
	FlagPostQuotes Flag = 1 << iota
	FlagEditQuotes
	FlagDeleteQuotes
	FlagListUsers
	FlagApproveQuotes
	FlagSetFlags
)

var roleFlags = map[Role]Flag{
	RolePostQuotes:    FlagPostQuotes,
	RoleEditQuotes:    FlagEditQuotes,
	RoleDeleteQuotes:  FlagDeleteQuotes,
	RoleListUsers:     FlagListUsers,
	RoleApproveQuotes: FlagApproveQuotes,
	RoleSetFlags:      FlagSetFlags,
}

var roleNames = map[Role]string{
	RolePostQuotes:    "post_quotes",
	RoleEditQuotes:    "edit_quotes",
	RoleDeleteQuotes:  "delete_quotes",
	RoleListUsers:     "list_users",
	RoleApproveQuotes: "approve_quotes",
	RoleSetFlags:      "set_flags",
	RoleLoggedIn:      "logged_in",
}

var namedRoles map[string]Role

func init() {
	namedRoles = make(map[string]Role, len(roleNames))
	for r, n := range roleNames {
		namedRoles[n] = r
	}
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "unknown"
}

// FlagForRole returns the bit backing r. RoleLoggedIn and values
// outside the enumeration have no bit and yield ErrUnknownRole.
func FlagForRole(r Role) (Flag, error) {
	f, ok := roleFlags[r]
	if !ok {
		return 0, ErrUnknownRole
	}
	return f, nil
}

// ParseRole maps an untrusted string onto the closed Role enumeration.
func ParseRole(s string) (Role, error) {
	r, ok := namedRoles[s]
	if !ok {
		return RoleUnknown, ErrUnknownRole
	}
	return r, nil
}

// Flags is a set of granted roles, stored as the OR of their flag
// bits. Bits outside the enumeration are preserved verbatim: the
// stored integer is caller-supplied and must survive a round trip
// even when it sets bits no Role claims.
type Flags int64

func FlagsFromInt(v int64) Flags {
	return Flags(v)
}

func (f Flags) Int() int64 {
	return int64(f)
}

// Has reports whether the bit backing r is set. Pseudo-roles and
// unknown roles are never held.
func (f Flags) Has(r Role) bool {
	bit, ok := roleFlags[r]
	if !ok {
		return false
	}
	return int64(f)&int64(bit) != 0
}

func (f Flags) With(r Role) Flags {
	bit, ok := roleFlags[r]
	if !ok {
		return f
	}
	return f | Flags(bit)
}

func (f Flags) Without(r Role) Flags {
	bit, ok := roleFlags[r]
	if !ok {
		return f
	}
	return f &^ Flags(bit)
}

// Roles expands the set into the roles it holds, in enumeration
// order. Unclaimed bits are not represented.
func (f Flags) Roles() []Role {
	var roles []Role
	for r := RolePostQuotes; r <= RoleSetFlags; r++ {
		if f.Has(r) {
			roles = append(roles, r)
		}
	}
	return roles
}
