package serializer

import (
	"math"
	"strconv"
	"strings"
)

// maxSpace is the maximum indentation width, as in JSON.stringify
const maxSpace = 10

// Options configures a single Serialize call
type Options struct {
	// Space is the indentation used for every nesting level (empty means compact output)
	Space string
	// IsJSON skips the detection of deferred values. The value is encoded like JSON.stringify would do it.
	IsJSON bool
	// IgnoreFunction drops function valued properties and turns a top-level function into undefined
	IgnoreFunction bool
	// Unsafe disables the escaping of <, >, /, U+2028 and U+2029
	Unsafe bool
}

// String returns a compact representation of the options (used for cache keys and logs)
func (o Options) String() string {
	var sb strings.Builder
	sb.WriteString("space=")
	sb.WriteString(strconv.Quote(o.Space))
	sb.WriteString(",isJSON=")
	sb.WriteString(strconv.FormatBool(o.IsJSON))
	sb.WriteString(",ignoreFunction=")
	sb.WriteString(strconv.FormatBool(o.IgnoreFunction))
	sb.WriteString(",unsafe=")
	sb.WriteString(strconv.FormatBool(o.Unsafe))
	return sb.String()
}

// Option modifies Options
type Option func(*Options)

// WithOptions replaces all options with o
func WithOptions(o Options) Option {
	return func(opts *Options) {
		*opts = o
	}
}

// WithSpace sets the indentation like the space argument of JSON.stringify:
// an integer n indents with min(n, 10) spaces, a string indents with its first 10 characters.
// Any other type disables indentation.
func WithSpace(space any) Option {
	return func(opts *Options) {
		opts.Space = normalizeSpace(space)
	}
}

// WithIndent indents every level with n spaces (at most 10)
func WithIndent(n int) Option {
	return WithSpace(n)
}

// IsJSON skips the detection of deferred values
func IsJSON() Option {
	return func(opts *Options) {
		opts.IsJSON = true
	}
}

// IgnoreFunction drops function valued properties
func IgnoreFunction() Option {
	return func(opts *Options) {
		opts.IgnoreFunction = true
	}
}

// Unsafe disables the escaping of unsafe characters
func Unsafe() Option {
	return func(opts *Options) {
		opts.Unsafe = true
	}
}

// buildOptions applies all opts to a zero Options value
func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	o.Space = normalizeSpace(o.Space)
	return o
}

// normalizeSpace converts the supported space arguments to an indentation string
func normalizeSpace(space any) string {
	switch s := space.(type) {
	case string:
		if r := []rune(s); len(r) > maxSpace {
			return string(r[:maxSpace])
		}
		return s
	case int:
		return strings.Repeat(" ", min(max(s, 0), maxSpace))
	case int64:
		return strings.Repeat(" ", int(min(max(s, 0), maxSpace)))
	case float64:
		// NaN counts as 0, like in JSON.stringify
		if math.IsNaN(s) {
			return ""
		}
		return strings.Repeat(" ", int(min(max(s, 0), maxSpace)))
	default:
		return ""
	}
}
