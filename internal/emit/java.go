package emit

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/JonMunkholm/entitygen/internal/model"
	"github.com/JonMunkholm/entitygen/internal/naming"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var javaTemplates = template.Must(template.ParseFS(templateFS, "templates/*.java.tmpl"))

var javaKeywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true, "_": true,
}

// JavaEmitter renders entities as JPA annotated Java classes.
type JavaEmitter struct {
	pkg string
}

// NewJavaEmitter creates a Java emitter for package pkg.
func NewJavaEmitter(pkg string) *JavaEmitter {
	return &JavaEmitter{pkg: pkg}
}

func (j *JavaEmitter) Language() string { return Java }

func (j *JavaEmitter) EntityFile(e *model.Entity) string { return e.ClassName + ".java" }

func (j *JavaEmitter) KeyFile(k *model.Key) string { return k.ClassName + ".java" }

type javaMember struct {
	Annotations []string
	Type        string
	Name        string
	Accessor    string
}

type javaClass struct {
	Package   string
	Table     string
	ClassName string
	Members   []javaMember
}

// Emit renders the @Entity class of e.
func (j *JavaEmitter) Emit(e *model.Entity) (string, error) {
	class := javaClass{Package: j.pkg, Table: e.Table, ClassName: e.ClassName}
	for _, f := range e.Fields {
		class.Members = append(class.Members, javaEntityMember(f))
	}
	return j.execute("entity.java.tmpl", class)
}

// EmitKey renders the @Embeddable key class of k.
func (j *JavaEmitter) EmitKey(k *model.Key) (string, error) {
	class := javaClass{Package: j.pkg, Table: k.Table, ClassName: k.ClassName}
	for _, f := range k.Fields {
		class.Members = append(class.Members, javaScalar(f))
	}
	return j.execute("key.java.tmpl", class)
}

func (j *JavaEmitter) execute(name string, class javaClass) (string, error) {
	var buf bytes.Buffer
	if err := javaTemplates.ExecuteTemplate(&buf, name, class); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", class.ClassName, err)
	}
	return buf.String(), nil
}

func javaEntityMember(field model.Field) javaMember {
	switch f := field.(type) {
	case *model.ScalarField:
		m := javaScalar(f)
		if f.PrimaryKey {
			m.Annotations = append([]string{"@Id"}, m.Annotations...)
		}
		if f.AutoGenerated {
			m.Annotations = append(m.Annotations, "@GeneratedValue(strategy = GenerationType.IDENTITY)")
		}
		return m
	case *model.RelationField:
		return javaMember{
			Annotations: []string{
				"@ManyToOne(fetch = FetchType.LAZY)",
				fmt.Sprintf("@JoinColumn(name = %q)", f.Column),
			},
			Type:     f.TargetType,
			Name:     javaField(f.Name),
			Accessor: naming.Export(f.Name),
		}
	case *model.EmbeddedKeyField:
		return javaMember{
			Annotations: []string{"@EmbeddedId"},
			Type:        f.KeyType,
			Name:        javaField(f.Name),
			Accessor:    naming.Export(f.Name),
		}
	}
	return javaMember{}
}

func javaScalar(f *model.ScalarField) javaMember {
	return javaMember{
		Annotations: []string{fmt.Sprintf("@Column(name = %q)", f.Column)},
		Type:        f.Kind.JavaType(),
		Name:        javaField(f.Name),
		Accessor:    naming.Export(f.Name),
	}
}

// javaField prefixes reserved words with an underscore.
func javaField(name string) string {
	if javaKeywords[name] {
		return "_" + name
	}
	return name
}

// validJavaPackage reports whether pkg is a dotted sequence of Java identifiers.
// The unnamed package is not accepted.
func validJavaPackage(pkg string) bool {
	for _, part := range strings.Split(pkg, ".") {
		if !javaIdentifier(part) || javaKeywords[part] {
			return false
		}
	}
	return true
}

func javaIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
