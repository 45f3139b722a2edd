/*
Package tagged parses JSON and YAML documents into values the serializer understands.

JSON and YAML have no syntax for dates, regular expressions, maps with arbitrary keys
and the other JavaScript only values. A tagged document marks them with objects that
have exactly one key starting with "$":

	{"$date": "2020-01-02T03:04:05Z"}            -> time.Time
	{"$regexp": "/ab+c/gi"}                       -> serializer.RegExp
	{"$regexp": {"source": "ab+c", "flags": "g"}} -> serializer.RegExp
	{"$map": [["key", "value"]]}                  -> *serializer.Map
	{"$set": [1, 2]}                              -> *serializer.Set
	{"$url": "https://example.com"}               -> *url.URL
	{"$bigint": "12345678901234567890"}           -> *big.Int
	{"$undefined": true}                          -> serializer.Undefined
	{"$number": "Infinity"}                       -> +Inf, -Inf or NaN
	{"$function": "x => x + 1"}                   -> serializer.Function
	{"$sparse": {"length": 3, "items": {"1": 2}}} -> *serializer.SparseArray
	{"$literal": {"$date": "not a tag"}}          -> the object itself

Objects keep the order of their keys (serializer.Object) and numbers keep their
exact text (json.Number). Further tags can be added with Register.
*/
package tagged
