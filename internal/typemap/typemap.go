// Package typemap maps vendor SQL type names onto target language scalar types.
package typemap

import "strings"

// Kind is the canonical category a SQL type resolves to.
type Kind int

const (
	// String is also the fallback for unrecognized SQL types.
	String Kind = iota
	Int32
	Int64
	Decimal
	Float32
	Float64
	Bool
	Date
	// Timestamp covers TIMESTAMPTZ as well; the offset is not modeled.
	Timestamp
)

var kinds = map[string]Kind{
	"INT":         Int32,
	"INT4":        Int32,
	"INTEGER":     Int32,
	"BIGINT":      Int64,
	"INT8":        Int64,
	"DECIMAL":     Decimal,
	"NUMERIC":     Decimal,
	"FLOAT":       Float32,
	"FLOAT4":      Float32,
	"REAL":        Float32,
	"FLOAT8":      Float64,
	"DOUBLE":      Float64,
	"BOOLEAN":     Bool,
	"BOOL":        Bool,
	"DATE":        Date,
	"TIMESTAMP":   Timestamp,
	"TIMESTAMPTZ": Timestamp,
	"CHAR":        String,
	"VARCHAR":     String,
	"TEXT":        String,
}

// Lookup resolves sqlType case-insensitively after trimming surrounding
// whitespace, so " int " is INT. Names outside the table, including the
// serial pseudo-types, resolve to String. The column size is accepted for
// fixed-length differentiation but does not influence the result.
func Lookup(sqlType string, size int) Kind {
	_ = size
	if k, ok := kinds[strings.ToUpper(strings.TrimSpace(sqlType))]; ok {
		return k
	}
	return String
}

// MapType returns the Go type name for sqlType. It never returns "".
func MapType(sqlType string, size int) string {
	return Lookup(sqlType, size).GoType()
}

// GoType returns the Go spelling of the kind. Package qualified types are
// returned as "pkg.Name"; see GoImport for the import path.
func (k Kind) GoType() string {
	switch k {
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Decimal:
		return "decimal.Decimal"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Bool:
		return "bool"
	case Date, Timestamp:
		return "time.Time"
	default:
		return "string"
	}
}

// GoImport returns the import path and type name for package qualified kinds,
// or empty strings for builtin types.
func (k Kind) GoImport() (path, name string) {
	switch k {
	case Decimal:
		return "github.com/shopspring/decimal", "Decimal"
	case Date, Timestamp:
		return "time", "Time"
	}
	return "", ""
}

// JavaType returns the boxed Java type used by the JPA output.
func (k Kind) JavaType() string {
	switch k {
	case Int32:
		return "Integer"
	case Int64:
		return "Long"
	case Decimal:
		return "java.math.BigDecimal"
	case Float32:
		return "Float"
	case Float64:
		return "Double"
	case Bool:
		return "Boolean"
	case Date:
		return "java.time.LocalDate"
	case Timestamp:
		return "java.time.LocalDateTime"
	default:
		return "String"
	}
}

func (k Kind) String() string {
	switch k {
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Decimal:
		return "decimal"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Bool:
		return "bool"
	case Date:
		return "date"
	case Timestamp:
		return "timestamp"
	default:
		return "string"
	}
}
