package tagged

import (
	"sort"
	"strings"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("tagged")

// DecodeFunc turns the argument of a tag into a value.
// The argument is the raw (not yet decoded) value next to the tag key.
type DecodeFunc func(arg any) (any, error)

var registry = xsync.NewMapOf[string, DecodeFunc]()

// Register adds (or replaces) the decoder of tag. Tags must start with "$".
// Register is safe to call concurrently with decoding.
func Register(tag string, fn DecodeFunc) error {
	if len(tag) < 2 || !strings.HasPrefix(tag, "$") {
		return NewError(ErrCInvalidTag, "tags must start with $ followed by a name, got "+tag)
	}
	if fn == nil {
		return NewError(ErrCInvalidTag, "no decoder given for "+tag)
	}
	if _, replaced := registry.LoadAndStore(tag, fn); replaced {
		Logger.Infof("replaced decoder of tag %s", tag)
	} else {
		Logger.Debugf("registered tag %s", tag)
	}
	return nil
}

// Unregister removes the decoder of tag
func Unregister(tag string) {
	registry.Delete(tag)
}

// Lookup returns the decoder of tag
func Lookup(tag string) (DecodeFunc, bool) {
	return registry.Load(tag)
}

// Tags returns all registered tags in sorted order
func Tags() []string {
	var tags []string
	registry.Range(func(tag string, _ DecodeFunc) bool {
		tags = append(tags, tag)
		return true
	})
	sort.Strings(tags)
	return tags
}

func init() {
	for tag, fn := range map[string]DecodeFunc{
		"$date":      decodeDate,
		"$regexp":    decodeRegExp,
		"$map":       decodeMap,
		"$set":       decodeSet,
		"$url":       decodeURL,
		"$bigint":    decodeBigInt,
		"$undefined": decodeUndefined,
		"$number":    decodeNumber,
		"$function":  decodeFunction,
		"$sparse":    decodeSparse,
		"$literal":   decodeLiteral,
	} {
		registry.Store(tag, fn)
	}
}
