package gen

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
)

// AccessorKind selects the accessor method of a column.
type AccessorKind uint8

// List of accessor kinds.
const (
	Getter AccessorKind = iota
	Setter
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Add common initialisms from golint and more.
	for _, w := range []string{"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GB", "GUID", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "KB", "MAC", "MB", "QPS", "RAM", "RPC", "SLA", "SMTP", "SQL", "SSH", "SSO", "TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID", "VM", "XML", "XSRF", "XSS"} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// ColumnName derives the column identifier of a field: an underscore is
// inserted before every upper-case letter, the result is lower-cased, and a
// leftover "m_" or "s_" prefix is removed.
//
//	mUserName => user_name
//	sCount    => count
//	UserName  => user_name
func ColumnName(field string) string {
	if field == "" {
		return field
	}
	var b strings.Builder
	b.Grow(len(field) + 4)
	for _, r := range field {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	name := b.String()
	if strings.HasPrefix(name, "m_") || strings.HasPrefix(name, "s_") {
		name = name[2:]
	}
	// Exported Go fields start with an upper-case letter.
	return strings.TrimPrefix(name, "_")
}

// AccessorName returns the getter or setter method name of a field.
//
//	mUserName => GetUserName / SetUserName
func AccessorName(field string, kind AccessorKind) string {
	if field == "" {
		return field
	}
	prefix := "Get"
	if kind == Setter {
		prefix = "Set"
	}
	return prefix + titleCase(stripPrefix(field))
}

// ParamName returns the setter parameter name of a field.
//
//	mUserName => userName
func ParamName(field string) string {
	if field == "" {
		return field
	}
	s := stripPrefix(field)
	r, n := utf8.DecodeRuneInString(s)
	name := string(unicode.ToLower(r)) + s[n:]
	if _, ok := reservedParam[name]; ok || token.Lookup(name).IsKeyword() {
		return "_" + name
	}
	return name
}

// reservedParam holds the identifiers used by the generated setter bodies.
var reservedParam = map[string]struct{}{
	"o":        {},
	"dbobject": {},
}

// stripPrefix removes the conventional instance or static member prefix
// ("m" or "s" followed by an upper-case letter).
func stripPrefix(field string) string {
	if len(field) < 2 || (field[0] != 'm' && field[0] != 's') {
		return field
	}
	if r, _ := utf8.DecodeRuneInString(field[1:]); !unicode.IsUpper(r) {
		return field
	}
	return field[1:]
}

// titleCase capitalizes the first letter of a string.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}

func pascalWords(words []string) string {
	for i, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			words[i] = upper
		} else {
			words[i] = rules.Capitalize(w)
		}
	}
	return strings.Join(words, "")
}

// pascal converts the given name into a PascalCase. Any character that is
// not a letter or a digit separates words.
//
//	user_info => UserInfo
//	user_id   => UserID
func pascal(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return pascalWords(words)
}

// snake converts the given struct or field name into a snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Put '_' if it is not a start or end of a word, current letter is uppercase,
		// and previous is lowercase (cases like: "UserInfo"), or next letter is also
		// a lowercase and previous letter is not "_".
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// TableName returns the default table name of a type.
//
//	User     => users
//	UserInfo => user_infos
func TableName(typeName string) string {
	return snake(rules.Pluralize(typeName))
}
