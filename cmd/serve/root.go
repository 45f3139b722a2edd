package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cmdUtil "github.com/ValentinKolb/serjs/cmd/util"
	"github.com/ValentinKolb/serjs/api"
	"github.com/ValentinKolb/serjs/lib/cache"
	"github.com/ValentinKolb/serjs/lib/common"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Logger = logger.GetLogger("cmd")

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the serjs HTTP API",
		Long:    `Start the serjs HTTP API with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is SERJS_<flag> (e.g. SERJS_CACHE_TTL=60)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the API will listen (e.g. localhost:8080)"))

	key = "max-body-kb"
	ServeCmd.PersistentFlags().Int64(key, 1024, cmdUtil.WrapString("Maximum size of a request body in KB"))

	key = "max-depth"
	ServeCmd.PersistentFlags().Int(key, 512, cmdUtil.WrapString("Maximum nesting of a request document"))

	key = "cache"
	ServeCmd.PersistentFlags().String(key, "none", cmdUtil.WrapString("Cache for rendered documents (none, local, redis)"))

	key = "cache-ttl"
	ServeCmd.PersistentFlags().Int64(key, 300, cmdUtil.WrapString("Time in seconds a rendered document stays cached. 0 means forever"))

	key = "cache-entries"
	ServeCmd.PersistentFlags().Int(key, cache.DefaultMaxEntries, cmdUtil.WrapString("(local cache) Maximum number of cached documents. The oldest one is dropped when the cache is full"))

	key = "redis-addr"
	ServeCmd.PersistentFlags().String(key, "localhost:6379", cmdUtil.WrapString("(redis cache) Address of the redis server"))

	key = "redis-prefix"
	ServeCmd.PersistentFlags().String(key, cache.DefaultRedisPrefix, cmdUtil.WrapString("(redis cache) Prefix of all keys written to redis"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	src, err := cmdUtil.GetSource()
	if err != nil {
		return err
	}

	cacheType, err := cache.ParseType(viper.GetString("cache"))
	if err != nil {
		return err
	}

	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.MaxBodyKB = viper.GetInt64("max-body-kb")
	serveCmdConfig.MaxDepth = viper.GetInt("max-depth")
	serveCmdConfig.Source = src
	serveCmdConfig.Options = cmdUtil.GetOptions()
	serveCmdConfig.CacheType = string(cacheType)
	serveCmdConfig.CacheTTLSecond = viper.GetInt64("cache-ttl")
	serveCmdConfig.CacheEntries = viper.GetInt("cache-entries")
	serveCmdConfig.RedisAddr = viper.GetString("redis-addr")
	serveCmdConfig.RedisPrefix = viper.GetString("redis-prefix")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	if serveCmdConfig.MaxBodyKB <= 0 {
		return fmt.Errorf("max-body-kb must be positive, got %d", serveCmdConfig.MaxBodyKB)
	}
	if serveCmdConfig.MaxDepth <= 0 {
		return fmt.Errorf("max-depth must be positive, got %d", serveCmdConfig.MaxDepth)
	}
	if serveCmdConfig.CacheEntries <= 0 {
		return fmt.Errorf("cache-entries must be positive, got %d", serveCmdConfig.CacheEntries)
	}
	if serveCmdConfig.CacheTTLSecond < 0 {
		return fmt.Errorf("cache-ttl must not be negative, got %d", serveCmdConfig.CacheTTLSecond)
	}

	return nil
}

// run starts the HTTP API and blocks until the process is interrupted
func run(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	c, closeCache, err := newCache(ctx, serveCmdConfig)
	if err != nil {
		return err
	}
	defer closeCache()

	Logger.Infof("serve configuration:\n%s", serveCmdConfig.String())

	return api.NewServer(s, c, *serveCmdConfig).ListenAndServe(ctx)
}

// newCache creates the configured render cache. The returned function releases its resources.
func newCache(ctx context.Context, config *common.ServerConfig) (cache.IRenderCache, func(), error) {
	switch cache.Type(config.CacheType) {
	case cache.TypeLocal:
		c := cache.NewLocalCache(config.CacheTTL(), config.CacheEntries)
		gcCtx, cancel := context.WithCancel(ctx)
		go c.RunGC(gcCtx, 0)
		return c, cancel, nil

	case cache.TypeRedis:
		c, err := cache.NewRedisCacheWithOptions(&redis.Options{Addr: config.RedisAddr}, config.RedisPrefix, config.CacheTTL())
		if err != nil {
			return nil, nil, err
		}
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", config.RedisAddr, err)
		}
		return c, func() { _ = c.Close() }, nil

	default:
		return cache.NopCache{}, func() {}, nil
	}
}
