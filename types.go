package xrif

// TypeCode identifies the element type of a stream's pixels, matching the
// ImageStreamIO type codes the original format borrowed its tag values from.
type TypeCode uint8

const (
	TypeUint8   TypeCode = 1
	TypeInt8    TypeCode = 2
	TypeUint16  TypeCode = 3
	TypeInt16   TypeCode = 4
	TypeUint32  TypeCode = 5
	TypeInt32   TypeCode = 6
	TypeUint64  TypeCode = 7
	TypeInt64   TypeCode = 8
	TypeFloat32 TypeCode = 9
	TypeFloat64 TypeCode = 10
	TypeComplexFloat32 TypeCode = 11
	TypeComplexFloat64 TypeCode = 12
	TypeHalf    TypeCode = 13 // IEEE-754 binary16, stored as uint16
)

// Typesize is the one deliberately in-band-erroring function in the package:
// it returns 0 for any tag it does not recognize, per the format's contract.
func Typesize(t TypeCode) int {
	switch t {
	case TypeUint8, TypeInt8:
		return 1
	case TypeUint16, TypeInt16, TypeHalf:
		return 2
	case TypeUint32, TypeInt32, TypeFloat32:
		return 4
	case TypeUint64, TypeInt64, TypeFloat64, TypeComplexFloat32:
		return 8
	case TypeComplexFloat64:
		return 16
	default:
		return 0
	}
}

// isIntegerType reports whether t is one of the integer element types.
// Differencing and reordering dispatch on element width only and do not
// call it: a floating-point or complex type of a supported width is
// differenced and reordered as integers of that width, not rejected.
func isIntegerType(t TypeCode) bool {
	switch t {
	case TypeUint8, TypeInt8, TypeUint16, TypeInt16, TypeUint32, TypeInt32, TypeUint64, TypeInt64:
		return true
	default:
		return false
	}
}
