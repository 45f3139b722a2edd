/*
Package cache stores rendered JavaScript so repeated requests skip the serializer.

The output of the serializer only depends on the input document and the options
(the session token never appears in the output), so a rendering can be cached under
a key derived from both. Three implementations exist:

  - NopCache: caches nothing
  - LocalCache: an in-process map with a TTL
  - RedisCache: a redis server shared by several API instances
*/
package cache
