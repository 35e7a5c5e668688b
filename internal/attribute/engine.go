package attribute

// Type is the logical type of a project attribute.
type Type string

const (
	TypeString Type = "string"
	TypeNumber Type = "number"
	TypeDate   Type = "date"
	TypeSelect Type = "select"
)

// Engine parses and formats values of one attribute type.
// Parse receives trimmed, non-empty input.
type Engine interface {
	Type() Type
	// ValidateOptions returns user-facing messages for an invalid option list.
	ValidateOptions(options []string) []string
	Parse(raw string, options []string) (Value, error)
	Format(v Value) string
}

var engines = map[Type]Engine{}

func init() {
	RegisterEngine(StringEngine{})
	RegisterEngine(NumberEngine{})
	RegisterEngine(DateEngine{})
	RegisterEngine(SelectEngine{})
}

// RegisterEngine registers an engine under its type name, replacing any previous one.
func RegisterEngine(engine Engine) {
	engines[engine.Type()] = engine
}

// GetEngine returns the engine for t.
func GetEngine(t Type) (Engine, bool) {
	engine, ok := engines[t]
	return engine, ok
}

// HasOptions reports whether values of t are restricted to an option list.
func (t Type) HasOptions() bool {
	return t == TypeSelect
}
