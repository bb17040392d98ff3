package num

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Uint is a 256 bit unsigned integer, the size of a token amount on an
// EVM chain. All arithmetic wraps around on overflow unless an *Overflow
// variant is used.
type Uint struct {
	u uint256.Int
}

// NewUint creates a new Uint with the value of the uint64 passed as a parameter.
func NewUint(val uint64) *Uint {
	return &Uint{*uint256.NewInt(val)}
}

// Zero returns a new Uint set to 0.
func Zero() *Uint {
	return NewUint(0)
}

// MaxUint returns a new Uint set to 2^256 - 1.
func MaxUint() *Uint {
	u := &Uint{}
	u.u.SetAllOne()
	return u
}

// UintFromBig constructs a new Uint from a big.Int.
// The boolean is true if b does not fit in 256 bits or is negative.
func UintFromBig(b *big.Int) (*Uint, bool) {
	if b == nil || b.Sign() < 0 {
		return Zero(), true
	}
	u, overflow := uint256.FromBig(b)
	if overflow {
		return Zero(), true
	}
	return &Uint{*u}, false
}

// UintFromString parses str in the given base.
// The boolean is true if the string is invalid or the value overflows.
func UintFromString(str string, base int) (*Uint, bool) {
	b, ok := new(big.Int).SetString(str, base)
	if !ok {
		return Zero(), true
	}
	return UintFromBig(b)
}

func MustUintFromString(str string, base int) *Uint {
	u, bad := UintFromString(str, base)
	if bad {
		panic(fmt.Sprintf("invalid uint %q in base %d", str, base))
	}
	return u
}

// Sum returns a new Uint holding the sum of all vals.
func Sum(vals ...*Uint) *Uint {
	return Zero().AddSum(vals...)
}

// Min returns the smaller of a and b.
func Min(a, b *Uint) *Uint {
	if a.LT(b) {
		return a
	}
	return b
}

func (z *Uint) Set(oth *Uint) *Uint {
	z.u.Set(&oth.u)
	return z
}

func (z *Uint) SetUint64(val uint64) *Uint {
	z.u.SetUint64(val)
	return z
}

// Copy sets z to the value of x: z = x.
func (z *Uint) Copy(x *Uint) *Uint {
	z.u = x.u
	return z
}

// Clone returns a new Uint holding the same value.
func (z Uint) Clone() *Uint {
	return &Uint{z.u}
}

// Add sets z = x + y and returns z.
func (z *Uint) Add(x, y *Uint) *Uint {
	z.u.Add(&x.u, &y.u)
	return z
}

// AddSum adds all vals to z in place.
func (z *Uint) AddSum(vals ...*Uint) *Uint {
	for _, x := range vals {
		z.u.Add(&z.u, &x.u)
	}
	return z
}

// AddOverflow sets z = x + y, the boolean is true if the sum does not fit
// in 256 bits.
func (z *Uint) AddOverflow(x, y *Uint) (*Uint, bool) {
	_, overflow := z.u.AddOverflow(&x.u, &y.u)
	return z, overflow
}

// Sub sets z = x - y and returns z.
func (z *Uint) Sub(x, y *Uint) *Uint {
	z.u.Sub(&x.u, &y.u)
	return z
}

// SubOverflow sets z = x - y, the boolean is true if x < y.
func (z *Uint) SubOverflow(x, y *Uint) (*Uint, bool) {
	_, overflow := z.u.SubOverflow(&x.u, &y.u)
	return z, overflow
}

// Mul sets z = x * y and returns z.
func (z *Uint) Mul(x, y *Uint) *Uint {
	z.u.Mul(&x.u, &y.u)
	return z
}

// MulOverflow sets z = x * y, the boolean is true if the product does not
// fit in 256 bits.
func (z *Uint) MulOverflow(x, y *Uint) (*Uint, bool) {
	_, overflow := z.u.MulOverflow(&x.u, &y.u)
	return z, overflow
}

// Div sets z = x / y, truncated. Division by zero gives zero.
func (z *Uint) Div(x, y *Uint) *Uint {
	z.u.Div(&x.u, &y.u)
	return z
}

// MulDiv sets z = x * y / d using a 512 bit intermediate product, so the
// result is exact as long as it fits in 256 bits. The boolean reports an
// overflow of the final result.
func (z *Uint) MulDiv(x, y, d *Uint) (*Uint, bool) {
	_, overflow := z.u.MulDivOverflow(&x.u, &y.u, &d.u)
	return z, overflow
}

func (z Uint) LT(oth *Uint) bool {
	return z.u.Lt(&oth.u)
}

func (z Uint) LTE(oth *Uint) bool {
	return !z.u.Gt(&oth.u)
}

func (z Uint) GT(oth *Uint) bool {
	return z.u.Gt(&oth.u)
}

func (z Uint) GTE(oth *Uint) bool {
	return !z.u.Lt(&oth.u)
}

func (z Uint) EQ(oth *Uint) bool {
	return z.u.Eq(&oth.u)
}

func (z Uint) NEQ(oth *Uint) bool {
	return !z.u.Eq(&oth.u)
}

func (z Uint) EQUint64(oth uint64) bool {
	return z.u.IsUint64() && z.u.Uint64() == oth
}

func (z Uint) IsZero() bool {
	return z.u.IsZero()
}

func (z Uint) Uint64() uint64 {
	return z.u.Uint64()
}

func (z Uint) BigInt() *big.Int {
	return z.u.ToBig()
}

func (z Uint) ToDecimal() Decimal {
	return DecimalFromUint(&z)
}

// String returns the value in base 10.
func (z Uint) String() string {
	return z.u.ToBig().String()
}

// Format implements fmt.Formatter.
func (z Uint) Format(s fmt.State, ch rune) {
	z.u.Format(s, ch)
}

// Bytes returns the big endian, 32 bytes representation of the value.
func (z Uint) Bytes() [32]byte {
	return z.u.Bytes32()
}
