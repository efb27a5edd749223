package gen

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/syssam/dbobject"
)

// TypeInfo describes how a declared field type is stored and accessed.
type TypeInfo struct {
	// Kind is the storage kind of the column.
	Kind dbobject.Kind
	// GoType is the parameter and return type of the accessor pair.
	GoType string
	// Retrieval is the DatabaseObject method reading the stored value.
	Retrieval string
	// Bool reports if the value is stored as 0 or 1.
	Bool bool
}

// Native returns the Go type returned by the retrieval method.
func (t TypeInfo) Native() string {
	switch t.Kind {
	case dbobject.KindInteger:
		return "int"
	case dbobject.KindLong:
		return "int64"
	case dbobject.KindDouble:
		return "float64"
	case dbobject.KindText:
		return "string"
	default:
		return ""
	}
}

// Converted reports if the accessor type differs from the retrieval type
// and a conversion is needed.
func (t TypeInfo) Converted() bool {
	return !t.Bool && t.GoType != t.Native()
}

var (
	integer = TypeInfo{Kind: dbobject.KindInteger, GoType: "int", Retrieval: "IntegerValue"}
	boolean = TypeInfo{Kind: dbobject.KindInteger, GoType: "bool", Retrieval: "IntegerValue", Bool: true}
	long    = TypeInfo{Kind: dbobject.KindLong, GoType: "int64", Retrieval: "LongValue"}
	double  = TypeInfo{Kind: dbobject.KindDouble, GoType: "float64", Retrieval: "DoubleValue"}
	text    = TypeInfo{Kind: dbobject.KindText, GoType: "string", Retrieval: "TextValue"}
)

// typeTable maps the case-folded declared type to its storage info.
var typeTable = func() map[string]TypeInfo {
	int32Info := integer
	int32Info.GoType = "int32"
	m := map[string]TypeInfo{
		"int":              integer,
		"int32":            int32Info,
		"bool":             boolean,
		"boolean":          boolean,
		"int64":            long,
		"long":             long,
		"float64":          double,
		"double":           double,
		"string":           text,
		"java.lang.string": text,
	}
	folded := make(map[string]TypeInfo, len(m))
	for k, v := range m {
		folded[cases.Fold().String(k)] = v
	}
	return folded
}()

// LookupType returns the storage info of a declared type. The match is
// case-insensitive. ok is false for unsupported types.
func LookupType(declared string) (info TypeInfo, ok bool) {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return TypeInfo{Kind: dbobject.KindUnsupported}, false
	}
	// A Caser is stateful and must not be shared between goroutines.
	info, ok = typeTable[cases.Fold().String(declared)]
	if !ok {
		return TypeInfo{Kind: dbobject.KindUnsupported}, false
	}
	return info, true
}
