package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	errs "github.com/matzehuels/umlstack/pkg/errors"
)

// Resolver looks up elements by identifier while reading an archive.
type Resolver interface {
	Find(id ID) (Element, bool)
}

// Archive is a bidirectional JSON field codec. The same Serialize method
// reads or writes depending on [Archive.Reading]: when writing, each call
// stores the pointed-to value under its key; when reading, each call loads
// the key into the pointer and leaves it untouched if the key is absent.
//
// Errors are sticky: after the first failure every later call is a no-op
// and [Archive.Err] returns that failure.
type Archive struct {
	reading  bool
	version  int
	name     string
	fields   map[string]json.RawMessage
	resolver Resolver
	err      error
}

// NewWriter returns an archive that collects fields for the given format
// version.
func NewWriter(version int) *Archive {
	return &Archive{
		version: version,
		fields:  make(map[string]json.RawMessage),
	}
}

// NewReader parses data as a JSON object. name identifies the source in
// error messages; r resolves element references and may be nil when the
// content holds none. A syntax error is reported with its byte offset.
func NewReader(data []byte, name string, r Resolver) (*Archive, error) {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, ParseError(name, err)
	}
	a := &Archive{
		reading:  true,
		name:     name,
		fields:   fields,
		resolver: r,
	}
	a.Int("version", &a.version)
	if a.err != nil {
		return nil, a.err
	}
	return a, nil
}

// ParseError converts a JSON decoding failure into a PARSE_ERROR carrying
// the byte offset when one is known.
func ParseError(name string, err error) error {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return errs.Wrap(errs.ErrCodeParse, err, "%s: offset %d", name, syn.Offset)
	}
	var typ *json.UnmarshalTypeError
	if errors.As(err, &typ) {
		return errs.Wrap(errs.ErrCodeParse, err, "%s: offset %d", name, typ.Offset)
	}
	return errs.Wrap(errs.ErrCodeParse, err, "%s", name)
}

// Reading reports whether the archive loads fields.
func (a *Archive) Reading() bool { return a.reading }

// Version returns the format version written or stored in the file.
func (a *Archive) Version() int { return a.version }

// Err returns the first failure recorded by the archive.
func (a *Archive) Err() error { return a.err }

// Fail records err unless an earlier failure exists.
func (a *Archive) Fail(err error) {
	if a.err == nil && err != nil {
		a.err = err
	}
}

// Has reports whether key is present.
func (a *Archive) Has(key string) bool {
	_, ok := a.fields[key]
	return ok
}

// Field reads or writes an arbitrary JSON-encodable value.
func (a *Archive) Field(key string, v any) {
	if a.err != nil {
		return
	}
	if !a.reading {
		raw, err := json.Marshal(v)
		if err != nil {
			a.Fail(errs.Wrap(errs.ErrCodeContract, err, "encode field %q", key))
			return
		}
		a.fields[key] = raw
		return
	}
	raw, ok := a.fields[key]
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, v); err != nil {
		a.Fail(ParseError(fmt.Sprintf("%s: field %q", a.name, key), err))
	}
}

func (a *Archive) String(key string, v *string) { a.Field(key, v) }

func (a *Archive) Int(key string, v *int) { a.Field(key, v) }

func (a *Archive) Bool(key string, v *bool) { a.Field(key, v) }

func (a *Archive) Float(key string, v *float64) { a.Field(key, v) }

func (a *Archive) Strings(key string, v *[]string) { a.Field(key, v) }

// Ref reads or writes an element reference stored as its identifier. A nil
// element is stored as null.
func (a *Archive) Ref(key string, e *Element) {
	if a.err != nil {
		return
	}
	if !a.reading {
		var raw *string
		if *e != nil {
			s := (*e).ID().String()
			raw = &s
		}
		a.Field(key, raw)
		return
	}
	var raw *string
	a.Field(key, &raw)
	if a.err != nil || raw == nil {
		return
	}
	found, err := a.resolve(*raw)
	if err != nil {
		a.Fail(err)
		return
	}
	*e = found
}

// Refs reads or writes an ordered list of element references.
func (a *Archive) Refs(key string, list *[]Element) {
	if a.err != nil {
		return
	}
	if !a.reading {
		ids := make([]string, 0, len(*list))
		for _, e := range *list {
			ids = append(ids, e.ID().String())
		}
		a.Field(key, ids)
		return
	}
	var ids []string
	a.Field(key, &ids)
	if a.err != nil || ids == nil {
		return
	}
	out := make([]Element, 0, len(ids))
	for _, raw := range ids {
		found, err := a.resolve(raw)
		if err != nil {
			a.Fail(err)
			return
		}
		out = append(out, found)
	}
	*list = out
}

// RefsSkipMissing is like [Archive.Refs], except that well-formed
// identifiers the resolver does not know are left out of the list and
// returned instead of failing the archive. Writing behaves like Refs.
func (a *Archive) RefsSkipMissing(key string, list *[]Element) (missing []ID) {
	if a.err != nil || !a.reading {
		a.Refs(key, list)
		return nil
	}
	var ids []string
	a.Field(key, &ids)
	if a.err != nil || ids == nil {
		return nil
	}
	out := make([]Element, 0, len(ids))
	for _, raw := range ids {
		id, err := ParseID(raw)
		if err != nil || a.resolver == nil {
			_, err = a.resolve(raw)
			a.Fail(err)
			return nil
		}
		found, ok := a.resolver.Find(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, found)
	}
	*list = out
	return missing
}

func (a *Archive) resolve(raw string) (Element, error) {
	id, err := ParseID(raw)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeDanglingRef, err, "%s: unresolved identifier %q", a.name, raw)
	}
	if a.resolver == nil {
		return nil, errs.New(errs.ErrCodeDanglingRef, "%s: unresolved identifier %q: no resolver", a.name, raw)
	}
	found, ok := a.resolver.Find(id)
	if !ok {
		return nil, errs.New(errs.ErrCodeDanglingRef, "%s: unresolved identifier %q", a.name, raw)
	}
	return found, nil
}

// Bytes encodes the collected fields, including the version, as an
// indented JSON object with sorted keys.
func (a *Archive) Bytes() ([]byte, error) {
	if a.err != nil {
		return nil, a.err
	}
	if a.reading {
		return nil, errs.New(errs.ErrCodeContract, "archive %s is open for reading", a.name)
	}
	out := make(map[string]json.RawMessage, len(a.fields)+1)
	for k, v := range a.fields {
		out[k] = v
	}
	out["version"] = json.RawMessage(fmt.Sprint(a.version))

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, errs.Wrap(errs.ErrCodeContract, err, "encode archive")
	}
	return buf.Bytes(), nil
}
