package types

// Kind is a named family of protection domains that share a set of
// user-primitive data types and a public representation, e.g. "additive3pp".
type Kind struct {
	name string
}

// Name returns the kind's declared name.
func (k *Kind) Name() string { return k.name }

func (k *Kind) String() string { return k.name }

// SecurityType is either the single public security type, or a named
// private protection domain belonging to a Kind. Interned: two security
// types are equal iff they are the same pointer.
type SecurityType struct {
	public bool
	name   string // "" for the public type
	kind   *Kind  // nil for the public type
}

// IsPublic reports whether s is the distinguished public security type.
func (s *SecurityType) IsPublic() bool { return s.public }

// IsPrivate reports whether s is a named private protection domain.
func (s *SecurityType) IsPrivate() bool { return !s.public }

// Name returns the domain's name, or "" for the public security type.
func (s *SecurityType) Name() string { return s.name }

// SecKind returns the domain's kind, or nil for the public security type.
func (s *SecurityType) SecKind() *Kind { return s.kind }

func (s *SecurityType) String() string {
	if s.public {
		return "public"
	}
	return s.name
}

// SecLEQ reports whether a <= b in the security lattice: public is bottom,
// every private domain is comparable only with itself.
func SecLEQ(a, b *SecurityType) bool {
	if a.IsPublic() {
		return true
	}
	return a == b
}

// SecJoin computes the least upper bound of a and b, or returns ok=false
// when neither is public and they are distinct domains (no join defined).
func SecJoin(a, b *SecurityType) (result *SecurityType, ok bool) {
	if a.IsPublic() {
		return b, true
	}
	if b.IsPublic() {
		return a, true
	}
	if a == b {
		return a, true
	}
	return nil, false
}
