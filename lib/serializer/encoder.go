package serializer

import (
	"bytes"
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/puzpuzpuz/xsync/v3"
)

var (
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	isJSONNumber      = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?(?:[eE][+-]?\d+)?$`)
)

// --------------------------------------------------------------------------
// Deferred values
// --------------------------------------------------------------------------

// deferredValue is a value that was replaced by a placeholder marker.
// path holds the containers that enclosed the value when it was deferred.
type deferredValue struct {
	value any
	path  *trail
}

// deferredValues holds one buffer per kind. The position inside a buffer is
// the index written into the marker.
type deferredValues struct {
	values [kindCount][]deferredValue
	count  int
}

func (d *deferredValues) push(kind Kind, v any, path *trail) int {
	d.values[kind] = append(d.values[kind], deferredValue{value: v, path: path})
	d.count++
	deferredValuesTotal[kind].Inc()
	return len(d.values[kind]) - 1
}

func (d *deferredValues) get(kind Kind, index int) (deferredValue, bool) {
	if kind == KindNone || kind >= kindCount || index < 0 || index >= len(d.values[kind]) {
		return deferredValue{}, false
	}
	return d.values[kind][index], true
}

// --------------------------------------------------------------------------
// Encoder
// --------------------------------------------------------------------------

// encodeState renders the JSON skeleton of a value. Unless the options request
// plain JSON every value without JSON representation is replaced by a marker.
type encodeState struct {
	strings.Builder
	uid      string
	opts     Options
	deferred *deferredValues // nil in JSON mode
	path     *trail          // references that are currently being encoded
}

func newEncodeState(uid string, opts Options, path *trail) *encodeState {
	e := &encodeState{
		uid:  uid,
		opts: opts,
		path: path,
	}
	if !opts.IsJSON {
		e.deferred = &deferredValues{}
	}
	return e
}

// encode writes v and reports whether anything was written.
// Nothing is written for values JSON.stringify skips (only in JSON mode).
func (e *encodeState) encode(v any, depth int) (bool, error) {
	kind, raw := classify(v)
	if kind != KindNone {
		if e.deferred == nil {
			return e.encodeJSONKind(kind, raw, depth)
		}
		if kind == KindArray {
			arr := raw.(*SparseArray)
			if !arr.IsSparse() && !(e.opts.IgnoreFunction && hasFunction(arr)) {
				return true, e.encodeSparseArray(arr, depth)
			}
		}
		e.writeMarker(kind, e.deferred.push(kind, raw, e.path))
		return true, nil
	}

	switch x := v.(type) {
	case nil:
		e.WriteString("null")
		return true, nil
	case Object:
		leave, err := e.enter(reflect.ValueOf(x))
		if err != nil {
			return false, err
		}
		defer leave()
		return true, e.encodeObject(x, depth)
	case *Object:
		if x == nil {
			e.WriteString("null")
			return true, nil
		}
		leave, err := e.enter(reflect.ValueOf(x))
		if err != nil {
			return false, err
		}
		defer leave()
		return true, e.encodeObject(*x, depth)
	case JSValuer:
		if isNilPointer(v) {
			e.WriteString("null")
			return true, nil
		}
		leave, err := e.enter(reflect.ValueOf(v))
		if err != nil {
			return false, err
		}
		defer leave()
		r, err := x.JSValue()
		if err != nil {
			return false, unsupportedValue("%T: %v", v, err)
		}
		if returnsItself(v, r) {
			return false, cyclicReference(fmt.Sprintf("%T", v))
		}
		return e.encode(r, depth)
	case json.Number:
		if x == "" {
			x = "0"
		}
		if !isJSONNumber.MatchString(string(x)) {
			return false, unsupportedValue("invalid number literal %q", string(x))
		}
		e.WriteString(string(x))
		return true, nil
	case json.Marshaler:
		if isNilPointer(v) {
			e.WriteString("null")
			return true, nil
		}
		return true, e.encodeMarshaler(x, depth)
	case encoding.TextMarshaler:
		if isNilPointer(v) {
			e.WriteString("null")
			return true, nil
		}
		text, err := x.MarshalText()
		if err != nil {
			return false, unsupportedValue("%T: %v", v, err)
		}
		e.writeString(string(text))
		return true, nil
	}

	return e.encodeValue(reflect.ValueOf(v), depth)
}

// encodeJSONKind writes a deferred kind the way JSON.stringify renders it
func (e *encodeState) encodeJSONKind(kind Kind, raw any, depth int) (bool, error) {
	switch kind {
	case KindUndefined, KindFunction:
		return false, nil
	case KindDate:
		e.writeString(isoString(raw.(time.Time)))
	case KindURL:
		e.writeString(raw.(*url.URL).String())
	case KindMap, KindSet, KindRegExp:
		e.WriteString("{}")
	case KindInfinity:
		e.WriteString("null")
	case KindBigInt:
		return false, unsupportedValue("BigInt %s can not be serialized as JSON", raw)
	case KindArray:
		return true, e.encodeSparseArray(raw.(*SparseArray), depth)
	}
	return true, nil
}

// encodeValue writes everything that is not handled by a type switch
func (e *encodeState) encodeValue(rv reflect.Value, depth int) (bool, error) {
	switch rv.Kind() {
	case reflect.Invalid:
		e.WriteString("null")
	case reflect.Bool:
		e.WriteString(strconv.FormatBool(rv.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32:
		e.WriteString(formatFloat(rv.Float(), 32))
	case reflect.Float64:
		e.WriteString(formatFloat(rv.Float(), 64))
	case reflect.String:
		e.writeString(rv.String())
	case reflect.Func:
		// only nil funcs end up here
		e.WriteString("null")
	case reflect.Interface:
		if rv.IsNil() {
			e.WriteString("null")
			return true, nil
		}
		return e.encode(rv.Elem().Interface(), depth)
	case reflect.Pointer:
		if rv.IsNil() {
			e.WriteString("null")
			return true, nil
		}
		leave, err := e.enter(rv)
		if err != nil {
			return false, err
		}
		defer leave()
		return e.encode(rv.Elem().Interface(), depth)
	case reflect.Struct:
		return true, e.encodeStruct(rv, depth)
	case reflect.Map:
		if rv.IsNil() {
			e.WriteString("null")
			return true, nil
		}
		leave, err := e.enter(rv)
		if err != nil {
			return false, err
		}
		defer leave()
		return true, e.encodeMap(rv, depth)
	case reflect.Slice:
		if rv.IsNil() {
			e.WriteString("null")
			return true, nil
		}
		if isByteSlice(rv.Type()) {
			e.writeString(base64.StdEncoding.EncodeToString(rv.Bytes()))
			return true, nil
		}
		leave, err := e.enter(rv)
		if err != nil {
			return false, err
		}
		defer leave()
		return true, e.encodeArray(rv, depth)
	case reflect.Array:
		return true, e.encodeArray(rv, depth)
	default:
		return false, unsupportedValue("values of type %s have no JavaScript representation", rv.Type())
	}
	return true, nil
}

// enter marks rv as being encoded. The returned function must be called once rv is done.
func (e *encodeState) enter(rv reflect.Value) (func(), error) {
	id, ok := identityOf(rv)
	if !ok {
		return func() {}, nil
	}
	return e.enterIdentity(id, rv.Type().String())
}

func (e *encodeState) enterIdentity(id identity, name string) (func(), error) {
	if e.path.contains(id) {
		return nil, cyclicReference(name)
	}
	prev := e.path
	e.path = prev.push(id)
	return func() { e.path = prev }, nil
}

// --------------------------------------------------------------------------
// Objects
// --------------------------------------------------------------------------

// omitted reports whether a property with value v is skipped
func (e *encodeState) omitted(v any) bool {
	if e.deferred == nil {
		return isUndefined(v) || isFunction(v)
	}
	return e.opts.IgnoreFunction && isFunction(v)
}

func (e *encodeState) encodeObject(props Object, depth int) error {
	e.WriteByte('{')
	first := true
	for _, p := range props {
		if e.omitted(p.Value) {
			continue
		}
		if !first {
			e.WriteByte(',')
		}
		first = false
		e.newline(depth + 1)
		e.writeString(p.Key)
		e.WriteByte(':')
		if e.opts.Space != "" {
			e.WriteByte(' ')
		}
		written, err := e.encode(p.Value, depth+1)
		if err != nil {
			return err
		}
		if !written {
			e.WriteString("null")
		}
	}
	if !first {
		e.newline(depth)
	}
	e.WriteByte('}')
	return nil
}

func (e *encodeState) encodeStruct(rv reflect.Value, depth int) error {
	fields := cachedTypeFields(rv.Type())
	props := make(Object, 0, len(fields))
	for _, f := range fields {
		fv, ok := fieldByIndex(rv, f.index)
		if !ok || (f.omitEmpty && isEmptyValue(fv)) {
			continue
		}
		props = append(props, Property{Key: f.name, Value: fv.Interface()})
	}
	return e.encodeObject(props, depth)
}

// encodeMap writes a Go map with textual keys, sorted by key
func (e *encodeState) encodeMap(rv reflect.Value, depth int) error {
	props := make(Object, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		name, err := mapKeyName(iter.Key())
		if err != nil {
			return err
		}
		props = append(props, Property{Key: name, Value: iter.Value().Interface()})
	}
	sort.Slice(props, func(i, j int) bool { return props[i].Key < props[j].Key })
	return e.encodeObject(props, depth)
}

func mapKeyName(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		if k.Kind() == reflect.Pointer && k.IsNil() {
			return "", nil
		}
		text, err := tm.MarshalText()
		if err != nil {
			return "", unsupportedValue("map key %T: %v", k.Interface(), err)
		}
		return string(text), nil
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", unsupportedValue("map key of type %s", k.Type())
}

// --------------------------------------------------------------------------
// Arrays
// --------------------------------------------------------------------------

func (e *encodeState) encodeArray(rv reflect.Value, depth int) error {
	n := rv.Len()
	elems := make([]any, n)
	for i := range n {
		elems[i] = rv.Index(i).Interface()
	}

	// functions are dropped from arrays by turning them into holes
	if e.deferred != nil && e.opts.IgnoreFunction {
		var holes []int
		for i, el := range elems {
			if isFunction(el) {
				holes = append(holes, i)
			}
		}
		if len(holes) > 0 {
			arr := SparseArrayOf(elems, holes...)
			e.writeMarker(KindArray, e.deferred.push(KindArray, arr, e.path))
			return nil
		}
	}

	return e.writeList(n, func(i int) (any, bool) { return elems[i], true }, depth)
}

// encodeSparseArray writes a as dense array, holes become null
func (e *encodeState) encodeSparseArray(a *SparseArray, depth int) error {
	if id, ok := containerIdentity(a); ok {
		leave, err := e.enterIdentity(id, "*serializer.SparseArray")
		if err != nil {
			return err
		}
		defer leave()
	}
	return e.writeList(a.Length, func(i int) (any, bool) {
		v, ok := a.Elements[i]
		return v, ok
	}, depth)
}

func (e *encodeState) writeList(n int, at func(i int) (any, bool), depth int) error {
	e.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			e.WriteByte(',')
		}
		e.newline(depth + 1)
		v, ok := at(i)
		if !ok {
			e.WriteString("null")
			continue
		}
		written, err := e.encode(v, depth+1)
		if err != nil {
			return err
		}
		if !written {
			e.WriteString("null")
		}
	}
	if n > 0 {
		e.newline(depth)
	}
	e.WriteByte(']')
	return nil
}

func hasFunction(a *SparseArray) bool {
	for _, v := range a.Elements {
		if isFunction(v) {
			return true
		}
	}
	return false
}

// --------------------------------------------------------------------------
// Scalars
// --------------------------------------------------------------------------

func (e *encodeState) newline(depth int) {
	if e.opts.Space == "" {
		return
	}
	e.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.WriteString(e.opts.Space)
	}
}

func (e *encodeState) writeMarker(kind Kind, index int) {
	id, _ := kind.Identifier()
	e.WriteString(`"@__`)
	e.WriteString(id)
	e.WriteByte('-')
	e.WriteString(e.uid)
	e.WriteByte('-')
	e.WriteString(strconv.Itoa(index))
	e.WriteString(`__@"`)
}

const hexDigits = "0123456789abcdef"

// writeString writes s as JSON string literal, escaping like JSON.stringify
func (e *encodeState) writeString(s string) {
	e.WriteByte('"')
	start := 0
	for i := 0; i < len(s); {
		if b := s[i]; b < utf8.RuneSelf {
			if b >= 0x20 && b != '"' && b != '\\' {
				i++
				continue
			}
			e.WriteString(s[start:i])
			switch b {
			case '"', '\\':
				e.WriteByte('\\')
				e.WriteByte(b)
			case '\b':
				e.WriteString(`\b`)
			case '\f':
				e.WriteString(`\f`)
			case '\n':
				e.WriteString(`\n`)
			case '\r':
				e.WriteString(`\r`)
			case '\t':
				e.WriteString(`\t`)
			default:
				e.WriteString(`\u00`)
				e.WriteByte(hexDigits[b>>4])
				e.WriteByte(hexDigits[b&0xF])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			e.WriteString(s[start:i])
			e.WriteString(`\ufffd`)
			i += size
			start = i
			continue
		}
		i += size
	}
	e.WriteString(s[start:])
	e.WriteByte('"')
}

func (e *encodeState) encodeMarshaler(m json.Marshaler, depth int) error {
	b, err := m.MarshalJSON()
	if err != nil {
		return unsupportedValue("%T: %v", m, err)
	}
	var buf bytes.Buffer
	if e.opts.Space == "" {
		err = json.Compact(&buf, b)
	} else {
		err = json.Indent(&buf, b, strings.Repeat(e.opts.Space, depth), e.opts.Space)
	}
	if err != nil {
		return unsupportedValue("%T returned invalid JSON: %v", m, err)
	}
	e.Write(buf.Bytes())
	return nil
}

// formatFloat formats a finite number the way JavaScript's Number#toString does
func formatFloat(f float64, bits int) string {
	if f == 0 {
		return "0" // also -0
	}
	format := byte('f')
	abs := math.Abs(f)
	if bits == 64 && (abs < 1e-6 || abs >= 1e21) || bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, bits)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(s)
		if n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	return s
}

// isoString formats t like Date#toISOString
func isoString(t time.Time) string {
	t = t.UTC()
	year := t.Year()
	if year >= 0 && year <= 9999 {
		return t.Format("2006-01-02T15:04:05.000Z")
	}
	sign := "+"
	if year < 0 {
		sign = "-"
		year = -year
	}
	return sign + strconv.FormatInt(int64(year)+1000000, 10)[1:] + t.Format("-01-02T15:04:05.000Z")
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func isByteSlice(t reflect.Type) bool {
	if t.Elem().Kind() != reflect.Uint8 {
		return false
	}
	p := reflect.PointerTo(t.Elem())
	return !p.Implements(jsonMarshalerType) && !p.Implements(textMarshalerType)
}

// --------------------------------------------------------------------------
// Struct fields
// --------------------------------------------------------------------------

// field is an encoded struct field
type field struct {
	name      string
	index     []int
	omitEmpty bool
}

var fieldCache = xsync.NewMapOf[reflect.Type, []field]()

// cachedTypeFields is like typeFields but uses a cache to avoid repeated work
func cachedTypeFields(t reflect.Type) []field {
	if f, ok := fieldCache.Load(t); ok {
		return f
	}
	f, _ := fieldCache.LoadOrStore(t, typeFields(t))
	return f
}

// typeFields returns the fields that are encoded for the struct type t.
// Fields of embedded structs are promoted unless a shallower field has the same name.
// The json struct tag is honored ("-", renaming and omitempty).
func typeFields(t reflect.Type) []field {
	type queued struct {
		typ   reflect.Type
		index []int
	}

	var fields []field
	taken := map[string]bool{}
	visited := map[reflect.Type]bool{}
	current := []queued{{typ: t}}

	for len(current) > 0 {
		var next []queued
		level := map[string]bool{}

		for _, q := range current {
			if visited[q.typ] {
				continue
			}
			visited[q.typ] = true

			for i := 0; i < q.typ.NumField(); i++ {
				sf := q.typ.Field(i)
				if !sf.IsExported() {
					continue
				}
				tag := sf.Tag.Get("json")
				if tag == "-" {
					continue
				}
				name, opts, _ := strings.Cut(tag, ",")
				index := append(append([]int(nil), q.index...), i)

				if sf.Anonymous && name == "" {
					ft := sf.Type
					if ft.Kind() == reflect.Pointer {
						ft = ft.Elem()
					}
					if ft.Kind() == reflect.Struct {
						next = append(next, queued{typ: ft, index: index})
						continue
					}
				}

				if name == "" {
					name = sf.Name
				}
				if taken[name] || level[name] {
					continue
				}
				level[name] = true
				fields = append(fields, field{
					name:      name,
					index:     index,
					omitEmpty: hasTagOption(opts, "omitempty"),
				})
			}
		}

		for name := range level {
			taken[name] = true
		}
		current = next
	}

	// fields are encoded in declaration order, promoted fields at the position of their embedding
	sort.Slice(fields, func(i, j int) bool {
		a, b := fields[i].index, fields[j].index
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
	return fields
}

func hasTagOption(opts, option string) bool {
	for opts != "" {
		var o string
		o, opts, _ = strings.Cut(opts, ",")
		if o == option {
			return true
		}
	}
	return false
}

// fieldByIndex returns the nested field of v, false if an embedded pointer is nil
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
