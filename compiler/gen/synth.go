package gen

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/syssam/dbobject"
)

// Synthesize builds the file of the generated object. It returns nil if the
// type has no valid column.
func Synthesize(t *Type) *jen.File {
	if !t.HasColumns() {
		return nil
	}
	s := &synth{Type: t, rt: t.RuntimePackage}
	f := jen.NewFile(t.PackageName)
	f.HeaderComment(t.Header)
	f.ImportName(s.rt, t.RuntimeName())
	s.structType(f)
	s.columns(f)
	s.groups(f)
	if t.FeatureEnabled(FeatureMigrations) && len(t.Migrations) > 0 {
		s.migrations(f)
	}
	s.constructors(f)
	s.initMembers(f)
	for _, c := range t.Columns {
		if c.Getter != nil {
			s.accessors(f, c)
		}
	}
	return f
}

// Render renders the file and formats the output.
func Render(f *jen.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, err
	}
	return imports.Process("", buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
}

type synth struct {
	*Type
	rt string
}

func (s *synth) qual(name string) *jen.Statement { return jen.Qual(s.rt, name) }

func (s *synth) recv() *jen.Statement {
	return jen.Id(s.Receiver()).Op("*").Id(s.ClassName())
}

func (s *synth) structType(f *jen.File) {
	f.Commentf("%s is the persistence object of %s.", s.ClassName(), s.Name)
	f.Type().Id(s.ClassName()).Struct(
		jen.Op("*").Qual(s.rt, "DatabaseObject"),
	)
}

var columnConstructors = map[dbobject.Kind]string{
	dbobject.KindInteger: "NewIntegerColumn",
	dbobject.KindLong:    "NewLongColumn",
	dbobject.KindText:    "NewTextColumn",
	dbobject.KindDouble:  "NewDoubleColumn",
}

func (s *synth) columns(f *jen.File) {
	f.Commentf("Columns of %s.", s.ClassName())
	f.Var().DefsFunc(func(g *jen.Group) {
		for _, c := range s.Columns {
			g.Id(c.Constant).Op("=").Add(s.qual(columnConstructors[c.Kind])).Call(
				jen.Lit(c.Name),
				jen.Lit(c.AllowNull),
				jen.Lit(c.Primary),
				jen.Lit(c.Version),
			)
		}
	})
}

// groups declares one collection per version holding every column of the
// versions up to it.
func (s *synth) groups(f *jen.File) {
	f.Commentf("Column collections of %s by schema version.", s.ClassName())
	f.Var().DefsFunc(func(g *jen.Group) {
		for _, v := range s.Groups.Versions() {
			g.Id(s.GroupName(v)).Op("=").Index().Op("*").Add(s.qual("Column")).ValuesFunc(func(g *jen.Group) {
				for _, c := range s.Groups.Cumulative(v) {
					g.Id(c.Constant)
				}
			})
		}
	})
}

func (s *synth) migrations(f *jen.File) {
	f.Commentf("%s holds the DDL statements that bring the %q table to each schema version.", s.MigrationsName(), s.Table())
	f.Var().Id(s.MigrationsName()).Op("=").Index().Add(s.qual("Migration")).ValuesFunc(func(g *jen.Group) {
		for _, m := range s.Migrations {
			g.Values(jen.Dict{
				jen.Id("Version"): jen.Lit(m.Version),
				jen.Id("Statements"): jen.Index().String().ValuesFunc(func(g *jen.Group) {
					for _, stmt := range m.Statements {
						g.Lit(stmt)
					}
				}),
			})
		}
	})
}

func (s *synth) constructors(f *jen.File) {
	ctx := jen.Id("ctx").Qual("context", "Context")
	f.Commentf("%s returns a %s of the latest schema version (%d).", s.Constructor(), s.ClassName(), s.LatestVersion)
	f.Func().Id(s.Constructor()).Params(ctx.Clone()).Params(jen.Op("*").Id(s.ClassName()), jen.Error()).Block(
		jen.Return(jen.Id(s.VersionConstructor()).Call(jen.Id("ctx"), jen.Lit(s.LatestVersion))),
	)
	f.Commentf("%s returns a %s bound to the columns of the given schema version.", s.VersionConstructor(), s.ClassName())
	f.Func().Id(s.VersionConstructor()).Params(ctx.Clone(), jen.Id("version").Int()).Params(jen.Op("*").Id(s.ClassName()), jen.Error()).Block(
		jen.Id(s.Receiver()).Op(":=").Op("&").Id(s.ClassName()).Values(jen.Dict{
			jen.Id("DatabaseObject"): s.qual("NewDatabaseObject").Call(jen.Id("ctx"), jen.Id("version")),
		}),
		jen.If(jen.Err().Op(":=").Id(s.Receiver()).Dot("initMembers").Call(), jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Id(s.Receiver()), jen.Nil()),
	)
}

// initMembers binds the collection of the requested version. Versions are
// tested in ascending order; an unknown version is an error.
func (s *synth) initMembers(f *jen.File) {
	o := s.Receiver()
	var chain *jen.Statement
	for _, v := range s.Groups.Versions() {
		cond := jen.Id(o).Dot("Version").Call().Op("==").Lit(v)
		body := jen.Id("templ").Dot("AddColumns").Call(jen.Id(s.GroupName(v)).Op("..."))
		if chain == nil {
			chain = jen.If(cond).Block(body)
		} else {
			chain = chain.Else().If(cond).Block(body)
		}
	}
	chain = chain.Else().Block(
		jen.Return(s.qual("NewVersionError").Call(jen.Lit(s.Name), jen.Id(o).Dot("Version").Call())),
	)
	f.Comment("initMembers binds the column collection of the object's version.")
	f.Func().Params(s.recv()).Id("initMembers").Params().Error().Block(
		jen.Id("templ").Op(":=").Id(o).Dot("Template").Call(),
		chain,
		jen.Return(jen.Nil()),
	)
}

func (s *synth) accessors(f *jen.File, c *ColumnSpec) {
	o := s.Receiver()
	value := jen.Id(o).Dot("DatabaseObject").Dot(c.Type.Retrieval).Call(jen.Id(c.Constant))
	switch {
	case c.Type.Bool:
		value = value.Op("==").Lit(1)
	case c.Type.Converted():
		value = jen.Id(c.Type.GoType).Call(value)
	}
	f.Commentf("%s returns the value of the %q column.", c.Getter.Name, c.Name)
	f.Func().Params(s.recv()).Id(c.Getter.Name).Params().Id(c.Type.GoType).Block(
		jen.Return(value),
	)

	arg := jen.Id(c.Setter.Param)
	if c.Type.Bool {
		arg = s.qual("BoolValue").Call(arg)
	}
	f.Commentf("%s sets the value of the %q column.", c.Setter.Name, c.Name)
	f.Func().Params(s.recv()).Id(c.Setter.Name).Params(jen.Id(c.Setter.Param).Id(c.Type.GoType)).Error().Block(
		jen.Return(jen.Id(o).Dot("DatabaseObject").Dot("SetValue").Call(jen.Id(c.Constant), arg)),
	)
}

// describe returns a one-line summary of the generated type.
func describe(t *Type) string {
	return fmt.Sprintf("%s: %d columns, versions %v, latest %d", t.ClassName(), len(t.Columns), t.Groups.Versions(), t.LatestVersion)
}
