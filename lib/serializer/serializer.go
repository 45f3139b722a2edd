package serializer

import (
	"fmt"
	"math"
	"math/big"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ValentinKolb/serjs/lib/uid"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("serializer")

// ISerializer renders Go values as JavaScript source text
type ISerializer interface {
	// Serialize returns a JavaScript expression that evaluates to a value equivalent to v
	Serialize(v any, opts ...Option) (string, error)
}

var validUID = regexp.MustCompile(`^[0-9A-Za-z]+$`)

// Serializer renders values as JavaScript source. Every Serializer owns a
// session token that is embedded in its placeholder markers, so markers can't
// be forged by input strings that don't know the token.
// A Serializer is safe for concurrent use.
type Serializer struct {
	uid               string
	placeholderRegexp *regexp.Regexp
}

// New creates a Serializer with the given session token.
// The token must be a non-empty alphanumeric string.
func New(token string) (*Serializer, error) {
	if !validUID.MatchString(token) {
		return nil, NewError(ErrCInvalidOption, fmt.Sprintf("session token must be a non-empty alphanumeric string, got %q", token))
	}

	var identifiers []string
	for _, k := range Kinds() {
		id, _ := k.Identifier()
		identifiers = append(identifiers, id)
	}

	pattern := `(\\)?"@__(` + strings.Join(identifiers, "|") + `)-` + regexp.QuoteMeta(token) + `-(\d+)__@"`
	Logger.Debugf("created serializer with placeholder pattern %s", pattern)

	return &Serializer{
		uid:               token,
		placeholderRegexp: regexp.MustCompile(pattern),
	}, nil
}

// NewFromSource creates a Serializer whose session token is drawn from src
func NewFromSource(src uid.IRandomSource) (*Serializer, error) {
	token, err := uid.Generate(src)
	if err != nil {
		return nil, NewError(ErrCInvalidOption, fmt.Sprintf("failed to generate session token: %v", err))
	}
	return New(token)
}

// MustNewFromSource is like NewFromSource but panics on error
func MustNewFromSource(src uid.IRandomSource) *Serializer {
	s, err := NewFromSource(src)
	if err != nil {
		panic(err)
	}
	return s
}

// UID returns the session token of the serializer
func (s *Serializer) UID() string {
	return s.uid
}

// Serialize implements ISerializer
func (s *Serializer) Serialize(v any, opts ...Option) (string, error) {
	options := buildOptions(opts)
	start := time.Now()

	out, err := s.serialize(v, options, nil)

	serializeCallsTotal.Inc()
	serializeDuration.UpdateDuration(start)
	if err != nil {
		countError(err)
		Logger.Debugf("serialize failed (%s): %v", options, err)
		return "", err
	}
	outputBytes.Update(float64(len(out)))
	return out, nil
}

// serialize runs the whole pipeline for v. path holds the deferred containers
// that are expanded by enclosing calls.
func (s *Serializer) serialize(v any, options Options, path *trail) (string, error) {
	if options.IgnoreFunction && isFunction(v) {
		v = Undefined
	}
	if isUndefined(v) {
		return "undefined", nil
	}

	e := newEncodeState(s.uid, options, path)
	written, err := e.encode(v, 0)
	if err != nil {
		return "", err
	}
	if !written {
		return "undefined", nil
	}

	str := e.String()
	if !options.Unsafe {
		str = EscapeUnsafeChars(str)
	}

	if e.deferred == nil || e.deferred.count == 0 {
		return str, nil
	}
	return s.rewrite(str, e.deferred, options)
}

// rewrite replaces every marker of str by the JavaScript source of its deferred value.
// Markers preceded by a backslash are part of a string literal and are kept.
func (s *Serializer) rewrite(str string, deferred *deferredValues, options Options) (string, error) {
	matches := s.placeholderRegexp.FindAllStringSubmatchIndex(str, -1)

	var sb strings.Builder
	sb.Grow(len(str))
	last := 0
	for _, m := range matches {
		sb.WriteString(str[last:m[0]])
		last = m[1]

		if m[2] >= 0 {
			sb.WriteString(str[m[0]:m[1]])
			continue
		}

		kind, _ := KindOfIdentifier(str[m[4]:m[5]])
		index, err := strconv.Atoi(str[m[6]:m[7]])
		if err != nil {
			sb.WriteString(str[m[0]:m[1]])
			continue
		}
		dv, ok := deferred.get(kind, index)
		if !ok {
			sb.WriteString(str[m[0]:m[1]])
			continue
		}

		js, err := s.render(kind, dv, options)
		if err != nil {
			return "", err
		}
		sb.WriteString(js)
	}
	sb.WriteString(str[last:])
	return sb.String(), nil
}

// render returns the JavaScript source of a deferred value
func (s *Serializer) render(kind Kind, dv deferredValue, options Options) (string, error) {
	switch kind {
	case KindUndefined:
		return "undefined", nil

	case KindInfinity:
		f := dv.value.(float64)
		switch {
		case math.IsNaN(f):
			return "NaN", nil
		case f > 0:
			return "Infinity", nil
		default:
			return "-Infinity", nil
		}

	case KindBigInt:
		return `BigInt("` + dv.value.(*big.Int).String() + `")`, nil

	case KindDate:
		return `new Date("` + isoString(dv.value.(time.Time)) + `")`, nil

	case KindRegExp:
		re := dv.value.(RegExp)
		source, err := s.serialize(re.Source, Options{}, dv.path)
		if err != nil {
			return "", err
		}
		return `new RegExp(` + source + `, "` + re.Flags + `")`, nil

	case KindURL:
		href, err := s.serialize(dv.value.(*url.URL).String(), options, dv.path)
		if err != nil {
			return "", err
		}
		return `new URL(` + href + `)`, nil

	case KindFunction:
		if fn, ok := dv.value.(Function); ok {
			return NormalizeFunction(string(fn))
		}
		return "", nativeFunctionError(reflect.ValueOf(dv.value))

	case KindMap:
		entries, err := s.expand(dv, options, mapEntries(dv.value))
		if err != nil {
			return "", err
		}
		return `new Map(` + entries + `)`, nil

	case KindSet:
		values, err := s.expand(dv, options, dv.value.(*Set).Values())
		if err != nil {
			return "", err
		}
		return `new Set(` + values + `)`, nil

	case KindArray:
		obj, err := s.expand(dv, options, arrayLikeObject(dv.value.(*SparseArray)))
		if err != nil {
			return "", err
		}
		return `Array.prototype.slice.call(` + obj + `)`, nil
	}
	return "", NewError(ErrCUnknown, fmt.Sprintf("no renderer for kind %s", kind))
}

// expand serializes the content of the deferred container dv
func (s *Serializer) expand(dv deferredValue, options Options, content any) (string, error) {
	path := dv.path
	if id, ok := containerIdentity(dv.value); ok {
		if path.contains(id) {
			return "", cyclicReference(reflect.TypeOf(dv.value).String())
		}
		path = path.push(id)
	}
	return s.serialize(content, options, path)
}

// mapEntries returns the entries of a *Map or a Go map as array of [key, value] pairs.
// Go maps have no order, their entries are sorted by the formatted key.
func mapEntries(m any) []any {
	if jm, ok := m.(*Map); ok {
		entries := make([]any, 0, jm.Len())
		for _, e := range jm.Entries() {
			entries = append(entries, []any{e.Key, e.Value})
		}
		return entries
	}

	type sortable struct {
		name  string
		entry []any
	}
	rv := reflect.ValueOf(m)
	list := make([]sortable, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().Interface()
		list = append(list, sortable{
			name:  fmt.Sprint(k),
			entry: []any{k, iter.Value().Interface()},
		})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].name < list[j].name })

	entries := make([]any, len(list))
	for i, l := range list {
		entries[i] = l.entry
	}
	return entries
}

// arrayLikeObject returns the object {"<index>": value, ..., "length": n} of a sparse array
func arrayLikeObject(a *SparseArray) Object {
	idx := a.indexes()
	obj := make(Object, 0, len(idx)+1)
	for _, i := range idx {
		obj = append(obj, Property{Key: strconv.Itoa(i), Value: a.Elements[i]})
	}
	return append(obj, Property{Key: "length", Value: a.Length})
}
