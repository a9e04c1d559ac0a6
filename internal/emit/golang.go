package emit

import (
	"bytes"
	"fmt"
	"go/token"

	"github.com/dave/jennifer/jen"

	"github.com/JonMunkholm/entitygen/internal/model"
	"github.com/JonMunkholm/entitygen/internal/naming"
)

const generatedHeader = "Code generated by entitygen. DO NOT EDIT."

// GoEmitter renders entities as Go structs. Persistence markers are carried in
// `db` and `entity` struct tags; members are unexported and reached through
// Get/Set accessors.
type GoEmitter struct {
	pkg string
}

// NewGoEmitter creates a Go emitter for package pkg.
func NewGoEmitter(pkg string) *GoEmitter {
	return &GoEmitter{pkg: pkg}
}

func (g *GoEmitter) Language() string { return Go }

func (g *GoEmitter) EntityFile(e *model.Entity) string {
	return naming.Snake(e.Table) + ".go"
}

func (g *GoEmitter) KeyFile(k *model.Key) string {
	return naming.Snake(k.Table) + "_id.go"
}

// Emit renders the entity struct, its TableName method and accessors.
func (g *GoEmitter) Emit(e *model.Entity) (string, error) {
	f := g.newFile()

	f.Commentf("%s is the entity mapped to the %q table.", e.ClassName, e.Table)
	f.Type().Id(e.ClassName).StructFunc(func(group *jen.Group) {
		for _, field := range e.Fields {
			group.Id(goField(field.FieldName())).Add(goFieldType(field)).Tag(goTags(field))
		}
	})

	f.Comment("TableName returns the name of the mapped table.")
	f.Func().Params(jen.Id(e.ClassName)).Id("TableName").Params().String().Block(
		jen.Return(jen.Lit(e.Table)),
	)

	for _, field := range e.Fields {
		genAccessors(f, e.ClassName, field.FieldName(), goFieldType(field))
	}

	return render(f, e.ClassName)
}

// EmitKey renders the composite key struct with an Equal method.
func (g *GoEmitter) EmitKey(k *model.Key) (string, error) {
	f := g.newFile()

	f.Commentf("%s is the composite primary key of the %q table.", k.ClassName, k.Table)
	f.Type().Id(k.ClassName).StructFunc(func(group *jen.Group) {
		for _, field := range k.Fields {
			group.Id(goField(field.Name)).Add(goFieldType(field)).Tag(goTags(field))
		}
	})

	for _, field := range k.Fields {
		genAccessors(f, k.ClassName, field.Name, goFieldType(field))
	}

	f.Comment("Equal reports whether both keys hold the same column values.")
	f.Func().Params(jen.Id("_e").Id(k.ClassName)).Id("Equal").Params(jen.Id("other").Id(k.ClassName)).Bool().BlockFunc(func(grp *jen.Group) {
		if len(k.Fields) == 0 {
			grp.Return(jen.True())
			return
		}
		var cond *jen.Statement
		for _, field := range k.Fields {
			cmp := goKeyCompare(field)
			if cond == nil {
				cond = cmp
				continue
			}
			cond = cond.Op("&&").Line().Add(cmp)
		}
		grp.Return(cond)
	})

	return render(f, k.ClassName)
}

func (g *GoEmitter) newFile() *jen.File {
	f := jen.NewFile(g.pkg)
	f.HeaderComment(generatedHeader)
	return f
}

func render(f *jen.File, name string) (string, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

// genAccessors adds the Get/Set pair of one member.
func genAccessors(f *jen.File, typeName, fieldName string, typ jen.Code) {
	member := goField(fieldName)
	suffix := naming.Export(fieldName)

	f.Func().Params(jen.Id("_e").Op("*").Id(typeName)).Id("Get" + suffix).Params().Add(typ).Block(
		jen.Return(jen.Id("_e").Dot(member)),
	)
	f.Func().Params(jen.Id("_e").Op("*").Id(typeName)).Id("Set" + suffix).Params(jen.Id("v").Add(typ)).Block(
		jen.Id("_e").Dot(member).Op("=").Id("v"),
	)
}

// goField returns a member identifier that does not clash with Go keywords.
func goField(name string) string {
	if token.Lookup(name).IsKeyword() {
		return "_" + name
	}
	return name
}

func goFieldType(field model.Field) *jen.Statement {
	switch f := field.(type) {
	case *model.ScalarField:
		if path, name := f.Kind.GoImport(); path != "" {
			return jen.Qual(path, name)
		}
		return jen.Id(f.Kind.GoType())
	case *model.RelationField:
		return jen.Op("*").Id(f.TargetType)
	case *model.EmbeddedKeyField:
		return jen.Id(f.KeyType)
	}
	return jen.Any()
}

func goTags(field model.Field) map[string]string {
	switch f := field.(type) {
	case *model.ScalarField:
		marker := "column:" + f.Column
		if f.PrimaryKey {
			marker += ";primaryKey"
		}
		if f.AutoGenerated {
			marker += ";identity"
		}
		return map[string]string{"db": f.Column, "entity": marker}
	case *model.RelationField:
		return map[string]string{"db": "-", "entity": "manyToOne;joinColumn:" + f.Column}
	case *model.EmbeddedKeyField:
		return map[string]string{"db": "-", "entity": "embeddedId"}
	}
	return nil
}

// goKeyCompare compares one key member of _e and other. time.Time and decimal
// values are compared through their Equal methods.
func goKeyCompare(f *model.ScalarField) *jen.Statement {
	member := goField(f.Name)
	if path, _ := f.Kind.GoImport(); path != "" {
		return jen.Id("_e").Dot(member).Dot("Equal").Call(jen.Id("other").Dot(member))
	}
	return jen.Id("_e").Dot(member).Op("==").Id("other").Dot(member)
}

func validGoPackage(pkg string) bool {
	return token.IsIdentifier(pkg) && pkg != "_"
}
