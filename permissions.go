package pma

import "pma/utils"

// Permissions is the fixed permission tuple of a region, usable directly
// as a grouping key. The effects bit takes part in grouping but is never
// synthesized into the decision function.
type Permissions uint8

const (
	PermRead Permissions = 1 << iota
	PermWrite
	PermExec
	PermCacheable
	PermArithmetic
	PermLogical
	PermEffects

	permQueryable = PermRead | PermWrite | PermExec | PermCacheable | PermArithmetic | PermLogical
)

func (p Permissions) String() string {
	res := []byte("-------")
	if p.Read() {
		res[0] = 'r'
	}
	if p.Write() {
		res[1] = 'w'
	}
	if p.Exec() {
		res[2] = 'x'
	}
	if p.Cacheable() {
		res[3] = 'c'
	}
	if p.Arithmetic() {
		res[4] = 'a'
	}
	if p.Logical() {
		res[5] = 'l'
	}
	if p.Effects() {
		res[6] = 'e'
	}
	return utils.BytesToString(res)
}

func (p Permissions) Read() bool {
	return p&PermRead != 0
}

func (p Permissions) Write() bool {
	return p&PermWrite != 0
}

func (p Permissions) Exec() bool {
	return p&PermExec != 0
}

func (p Permissions) Cacheable() bool {
	return p&PermCacheable != 0
}

func (p Permissions) Arithmetic() bool {
	return p&PermArithmetic != 0
}

func (p Permissions) Logical() bool {
	return p&PermLogical != 0
}

func (p Permissions) Effects() bool {
	return p&PermEffects != 0
}

// Useful reports whether the tuple carries any queryable bit; a region
// with only side-effects contributes nothing to the decision function.
func (p Permissions) Useful() bool {
	return p&permQueryable != 0
}

func ParsePermissions[T string | []byte](s T) (p Permissions) {
	if len(s) < 7 {
		return
	}
	if s[0] == 'r' {
		p |= PermRead
	}
	if s[1] == 'w' {
		p |= PermWrite
	}
	if s[2] == 'x' {
		p |= PermExec
	}
	if s[3] == 'c' {
		p |= PermCacheable
	}
	if s[4] == 'a' {
		p |= PermArithmetic
	}
	if s[5] == 'l' {
		p |= PermLogical
	}
	if s[6] == 'e' {
		p |= PermEffects
	}
	return p
}
