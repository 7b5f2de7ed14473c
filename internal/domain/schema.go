package domain

// Kind tells the form layer how to render and parse a field.
type Kind string

const (
	KindText     Kind = "text"
	KindTextArea Kind = "textarea"
	KindEmail    Kind = "email"
	KindNumber   Kind = "number"
	KindInt      Kind = "int"
	KindBool     Kind = "bool"
	KindDate     Kind = "date"
	KindSelect   Kind = "select" // fixed choices
	KindList     Kind = "list"   // comma separated strings
	KindImage    Kind = "image"  // single URL
	KindImages   Kind = "images" // URL list, newest first
	KindRef      Kind = "ref"    // one id of another resource
	KindRefs     Kind = "refs"   // ids of another resource
)

// Field describes one editable or displayed attribute of a record.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	// Rules is a validator tag applied to non-empty values, e.g. "gte=0,lte=5".
	Rules string
	// Options are the choices of a select, or suggestions when Suggest is set.
	Options []string
	Suggest bool
	// Ref names the resource a ref/refs field points into. Empty means a
	// free-form id.
	Ref string
	// ReadOnly fields are shown but never sent back.
	ReadOnly bool
}

// Numeric reports whether the field carries a number.
func (f Field) Numeric() bool { return f.Kind == KindNumber || f.Kind == KindInt }

// Multi reports whether the field carries a list.
func (f Field) Multi() bool {
	return f.Kind == KindList || f.Kind == KindImages || f.Kind == KindRefs
}

// Schema drives the generic CRUD engine for one resource.
type Schema struct {
	// Resource is the REST path segment: /api/<Resource>.
	Resource string
	Title    string
	Singular string
	// Section groups resources in the sidebar.
	Section string
	// Key is the field used in /api/<Resource>/:id.
	Key    string
	Fields []Field
	// Columns are the field names shown in the table.
	Columns []string
	// Search lists the fields matched by the free-text query.
	Search []string
	// Filters lists categorical fields offered as equality filters.
	Filters []string
	// FilterDefaults are used when the loaded rows carry no values for a filter.
	FilterDefaults map[string][]string
	// ImageField receives uploaded file URLs.
	ImageField string
	// ReadOnly resources can be listed and deleted but not created or edited.
	ReadOnly bool
	// StockStatus names the status field derived from quantity and expiryDate
	// when the admin leaves it blank.
	StockStatus string
}

// Field looks a field up by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Label returns the display label of a field, falling back to its name.
func (s Schema) Label(name string) string {
	if f, ok := s.Field(name); ok && f.Label != "" {
		return f.Label
	}
	return name
}

// KeyOf returns the lookup key of a record.
func (s Schema) KeyOf(r Record) string {
	key := s.Key
	if key == "" {
		key = "_id"
	}
	if v := r.Text(key); v != "" {
		return v
	}
	if key == "_id" {
		return r.Text("id")
	}
	return ""
}

// Editable returns the fields a form submits.
func (s Schema) Editable() []Field {
	out := make([]Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if !f.ReadOnly {
			out = append(out, f)
		}
	}
	return out
}

// Refs returns the fields that point into other resources.
func (s Schema) Refs() []Field {
	var out []Field
	for _, f := range s.Fields {
		if (f.Kind == KindRef || f.Kind == KindRefs) && f.Ref != "" {
			out = append(out, f)
		}
	}
	return out
}
