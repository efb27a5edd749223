package load

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Names of the annotation carriers in Go source.
const (
	// TagKey is the struct tag key holding the column annotation.
	TagKey = "dbcolumn"
	// Directive marks a struct type for generation in its doc comment.
	Directive = "//dbobject:generate"
)

// ParseColumnTag parses the value of a dbcolumn struct tag:
//
//	dbcolumn:"user_name"
//	dbcolumn:"name=user_name,allowNull=false,primary=true,version=2"
//
// A leading bare token is the column name. It returns nil for "-".
func ParseColumnTag(tag string) (*Column, error) {
	tag = strings.TrimSpace(tag)
	if tag == "-" {
		return nil, nil
	}
	c := NewColumn()
	if tag == "" {
		return c, nil
	}
	for i, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			if i != 0 {
				return nil, fmt.Errorf("dbcolumn: option %q has no value", part)
			}
			c.Name = part
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		switch k {
		case "name":
			c.Name = v
		case "allowNull":
			c.AllowNull = v
		case "primary":
			c.Primary = v
		case "version":
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("dbcolumn: invalid version %q: %w", v, err)
			}
			c.Version = n
		default:
			return nil, fmt.Errorf("dbcolumn: unknown option %q", k)
		}
	}
	return c, nil
}

// LookupColumnTag extracts and parses the dbcolumn key of a raw struct tag
// (without the surrounding backquotes). ok is false when the key is absent.
func LookupColumnTag(raw string) (c *Column, ok bool, err error) {
	v, ok := reflect.StructTag(raw).Lookup(TagKey)
	if !ok {
		return nil, false, nil
	}
	c, err = ParseColumnTag(v)
	return c, c != nil, err
}

// ObjectOptions are the type-level annotation values.
type ObjectOptions struct {
	LatestVersion int
	Table         string
}

// ParseDirective parses a "//dbobject:generate" comment line. ok is false if
// the line is not a generate directive.
func ParseDirective(line string) (opts ObjectOptions, ok bool, err error) {
	line = strings.TrimSpace(line)
	rest, found := strings.CutPrefix(line, Directive)
	if !found || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
		return opts, false, nil
	}
	opts.LatestVersion = DefaultVersion
	for _, kv := range strings.Fields(rest) {
		k, v, _ := strings.Cut(kv, "=")
		switch k {
		case "latestVersion":
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, true, fmt.Errorf("dbobject: invalid latestVersion %q: %w", v, err)
			}
			opts.LatestVersion = n
		case "table":
			opts.Table = v
		default:
			return opts, true, fmt.Errorf("dbobject: unknown option %q", k)
		}
	}
	return opts, true, nil
}
