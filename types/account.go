package types

// Address identifies an account on the ledger. The engine treats it as an
// opaque identifier; callers arrive already authenticated.
type Address string

const ZeroAddress Address = ""

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) String() string {
	return string(a)
}
