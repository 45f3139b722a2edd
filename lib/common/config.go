package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ValentinKolb/serjs/lib/serializer"
)

// Source names the random source of the session token
type Source string

const (
	SourceSecure  Source = "secure"  // UUID based token (serializer.Serialize)
	SourceBrowser Source = "browser" // crypto/rand token (browser.Serialize)
)

// ParseSource returns the Source named s
func ParseSource(s string) (Source, error) {
	switch src := Source(strings.ToLower(s)); src {
	case SourceSecure, SourceBrowser:
		return src, nil
	case "":
		return SourceSecure, nil
	default:
		return "", fmt.Errorf("invalid source %q (must be one of secure, browser)", s)
	}
}

// --------------------------------------------------------------------------
// Formatting helper
// --------------------------------------------------------------------------

// configPrinter creates the section and field helpers used by the String methods
func configPrinter(sb *strings.Builder) (addSection func(string), addField func(string, string)) {
	addSection = func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}
	addField = func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}
	return addSection, addField
}

func addOptionFields(addField func(string, string), o serializer.Options) {
	addField("Space", strconv.Quote(o.Space))
	addField("Is JSON", strconv.FormatBool(o.IsJSON))
	addField("Ignore Function", strconv.FormatBool(o.IgnoreFunction))
	addField("Unsafe", strconv.FormatBool(o.Unsafe))
}

// --------------------------------------------------------------------------
// Server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters of the HTTP API
type ServerConfig struct {
	// HTTP api settings
	Endpoint  string
	MaxBodyKB int64
	MaxDepth  int // maximum nesting of a request document

	// Serializer defaults (requests may override them)
	Source  Source
	Options serializer.Options

	// Render cache
	CacheType      string
	CacheTTLSecond int64
	CacheEntries   int // local cache only
	RedisAddr      string
	RedisPrefix    string

	// Logging configuration
	LogLevel string
}

// CacheTTL returns the cache ttl as duration
func (c *ServerConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSecond) * time.Second
}

// MaxBodyBytes returns the maximum request body size in bytes
func (c *ServerConfig) MaxBodyBytes() int64 {
	return c.MaxBodyKB * 1024
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder
	addSection, addField := configPrinter(&sb)

	addSection("HTTP Server")
	addField("Endpoint", c.Endpoint)
	addField("Max Body Size", fmt.Sprintf("%d KB", c.MaxBodyKB))
	addField("Max Depth", fmt.Sprintf("%d", c.MaxDepth))

	addSection("Serializer")
	addField("Source", string(c.Source))
	addOptionFields(addField, c.Options)

	addSection("Render Cache")
	addField("Type", c.CacheType)
	if c.CacheType != "none" {
		addField("TTL", fmt.Sprintf("%d sec", c.CacheTTLSecond))
	}
	if c.CacheType == "local" {
		addField("Max Entries", fmt.Sprintf("%d", c.CacheEntries))
	}
	if c.CacheType == "redis" {
		addField("Redis Address", c.RedisAddr)
		addField("Redis Prefix", c.RedisPrefix)
	}

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// Encode configuration struct
// --------------------------------------------------------------------------

// EncodeConfig holds the parameters of a single encode run
type EncodeConfig struct {
	Input   string // file name, "-" or empty for stdin
	Format  string
	Assign  string
	Source  Source
	Options serializer.Options
}

// String returns a formatted string representation of the configuration
func (c *EncodeConfig) String() string {
	var sb strings.Builder
	addSection, addField := configPrinter(&sb)

	addSection("Input")
	input := c.Input
	if input == "" || input == "-" {
		input = "stdin"
	}
	addField("File", input)
	addField("Format", c.Format)

	addSection("Output")
	if c.Assign != "" {
		addField("Assign To", c.Assign)
	}
	addField("Source", string(c.Source))
	addOptionFields(addField, c.Options)

	return sb.String()
}
