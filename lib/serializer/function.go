package serializer

import (
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

var (
	isArrowFunction  = regexp.MustCompile(`=>`)
	isPureFunction   = regexp.MustCompile(`^\s*(?:async\s+)?function\b`)
	isNativeCode     = regexp.MustCompile(`\{\s*\[native code\]\s*\}`)
	nativeNamePrefix = regexp.MustCompile(`^\s*(?:async\s+)?function\s*\*?\s*([\w$]*)`)
)

// reservedSymbols are the modifiers that may precede the name of a shorthand method
var reservedSymbols = map[string]bool{
	"*":     true,
	"async": true,
}

// NormalizeFunction renders the source of a JavaScript function as an expression.
//
// Function declarations and arrow functions are returned unchanged. Shorthand methods
// as they appear in object literals ("foo(a) {}", "async *bar() {}") are rewritten to
// anonymous function expressions ("function(a) {}", "async function*() {}").
// Native functions have no source and are rejected with an ErrCUnsupportedValue error.
func NormalizeFunction(src string) (string, error) {
	if isNativeCode.MatchString(src) {
		name := ""
		if m := nativeNamePrefix.FindStringSubmatch(src); m != nil {
			name = m[1]
		}
		return "", unsupportedValue("native function %s", name)
	}

	// e.g. {key: function() {}}
	if isPureFunction.MatchString(src) {
		return src, nil
	}

	// e.g. arg1 => arg1 + 5
	if isArrowFunction.MatchString(src) {
		return src, nil
	}

	argsStartAt := strings.IndexByte(src, '(')
	if argsStartAt < 0 {
		return src, nil
	}

	definition := strings.Fields(src[:argsStartAt])

	isAsync := false
	isGenerator := false
	hasName := false
	for _, token := range definition {
		if token == "async" {
			isAsync = true
		}
		if strings.Contains(token, "*") {
			isGenerator = true
		}
		if !reservedSymbols[token] {
			hasName = true
		}
	}

	// e.g. {key() {}}
	if hasName {
		var sb strings.Builder
		if isAsync {
			sb.WriteString("async ")
		}
		sb.WriteString("function")
		if isGenerator {
			sb.WriteString("*")
		}
		sb.WriteString(src[argsStartAt:])
		return sb.String(), nil
	}

	return src, nil
}

// nativeFunctionError builds the error for a Go func value, which has no JavaScript source
func nativeFunctionError(fn reflect.Value) *Error {
	name := "anonymous"
	if f := runtime.FuncForPC(fn.Pointer()); f != nil {
		name = f.Name()
	}
	return unsupportedValue("native function %s", name)
}
