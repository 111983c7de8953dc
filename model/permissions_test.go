package model

import "testing"

func TestFlagForRoleValues(t *testing.T) {
	expected := map[Role]Flag{
		RolePostQuotes:    1,
		RoleEditQuotes:    2,
		RoleDeleteQuotes:  4,
		RoleListUsers:     8,
		RoleApproveQuotes: 16,
		RoleSetFlags:      32,
	}

	for r, want := range expected {
		f, err := FlagForRole(r)
		if err != nil {
			t.Errorf("FlagForRole(%v): %v", r, err)
		}
		if f != want {
			t.Errorf("FlagForRole(%v) = %d, want %d", r, f, want)
		}
	}
}

func TestFlagForRoleUnknown(t *testing.T) {
	for _, r := range []Role{RoleUnknown, RoleLoggedIn, Role(99)} {
		if _, err := FlagForRole(r); err != ErrUnknownRole {
			t.Errorf("FlagForRole(%v) err = %v, want ErrUnknownRole", r, err)
		}
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("approve_quotes")
	if err != nil || r != RoleApproveQuotes {
		t.Errorf("ParseRole(approve_quotes) = %v, %v", r, err)
	}

	r, err = ParseRole("logged_in")
	if err != nil || r != RoleLoggedIn {
		t.Errorf("ParseRole(logged_in) = %v, %v", r, err)
	}

	if _, err := ParseRole("root"); err != ErrUnknownRole {
		t.Errorf("ParseRole(root) err = %v, want ErrUnknownRole", err)
	}
}

func TestFlagsHas(t *testing.T) {
	f := FlagsFromInt(5) // post_quotes | delete_quotes
	if !f.Has(RolePostQuotes) || !f.Has(RoleDeleteQuotes) {
		t.Error("flags=5 should hold post_quotes and delete_quotes")
	}
	if f.Has(RoleEditQuotes) || f.Has(RoleSetFlags) {
		t.Error("flags=5 should not hold edit_quotes or set_flags")
	}
	if f.Has(RoleLoggedIn) || f.Has(Role(99)) {
		t.Error("pseudo/unknown roles are never held")
	}
}

func TestFlagsWithWithout(t *testing.T) {
	f := Flags(0).With(RoleListUsers).With(RoleApproveQuotes)
	if f.Int() != 24 {
		t.Errorf("flags = %d, want 24", f.Int())
	}

	f = f.Without(RoleListUsers)
	if f.Int() != 16 {
		t.Errorf("flags = %d, want 16", f.Int())
	}

	// unknown roles don't change the set
	if f.With(Role(99)) != f || f.Without(Role(99)) != f {
		t.Error("unknown roles must be inert")
	}
}

func TestFlagsPreserveUnclaimedBits(t *testing.T) {
	raw := int64(0x1000 | 1)
	f := FlagsFromInt(raw)
	if f.Int() != raw {
		t.Errorf("round trip = %d, want %d", f.Int(), raw)
	}
	if !f.Has(RolePostQuotes) {
		t.Error("claimed bit lost")
	}

	roles := f.Roles()
	if len(roles) != 1 || roles[0] != RolePostQuotes {
		t.Errorf("Roles() = %v, want [post_quotes]", roles)
	}
}

func TestRoleString(t *testing.T) {
	if RoleSetFlags.String() != "set_flags" {
		t.Errorf("RoleSetFlags.String() = %q", RoleSetFlags.String())
	}
	if Role(99).String() != "unknown" {
		t.Errorf("Role(99).String() = %q", Role(99).String())
	}
}
