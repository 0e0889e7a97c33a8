package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Env        string
	HTTPServer HTTPServer
	GRPCServer GRPCServer
	Storage    Storage
	Mongo      Mongo
	Database   Database
	Prometheus Prometheus
	Redis      Redis
	Auth       Auth
	Images     Images
}

type HTTPServer struct {
	Address      string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

type GRPCServer struct {
	Address string
	Port    int
}

type Storage struct {
	Driver string
}

type Mongo struct {
	URI          string
	Database     string
	Timeout      time.Duration
	Transactions bool
}

type Database struct {
	Username       string
	Password       string
	Host           string
	Port           string
	DbName         string
	MigrationsPath string
}

type Prometheus struct {
	Address string
	Port    int
}

type Redis struct {
	Enabled  bool
	Address  string
	Port     int
	Password string
	DB       int
	PoolSize int
	PostTTL  time.Duration
}

type Auth struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
}

type Images struct {
	Dir            string
	MaxUploadBytes int64
}

func MustLoad() *Config {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("mongo.uri", "MONGO_URI")
	_ = v.BindEnv("auth.secret", "SECRET")
	_ = v.BindEnv("http_server.port", "PORT")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Error reading config file: %s", err)
		os.Exit(1)
	}

	cfg := fromViper(v)
	if cfg.Auth.Secret == "" {
		log.Printf("auth.secret must be set")
		os.Exit(1)
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("http_server.address", "0.0.0.0")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.read_timeout", 15*time.Second)
	v.SetDefault("http_server.write_timeout", 15*time.Second)
	v.SetDefault("http_server.cors_origins", []string{"*"})

	v.SetDefault("grpc_server.address", "0.0.0.0")
	v.SetDefault("grpc_server.port", 50053)

	v.SetDefault("storage.driver", StorageMongo)

	v.SetDefault("mongo.uri", "mongodb://mongo:27017")
	v.SetDefault("mongo.database", "feed")
	v.SetDefault("mongo.timeout", 10*time.Second)
	v.SetDefault("mongo.transactions", false)

	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "admin")
	v.SetDefault("database.host", "feed-db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.db_name", "feed")
	v.SetDefault("database.migrations_path", "migrations")

	v.SetDefault("prometheus.address", "0.0.0.0")
	v.SetDefault("prometheus.port", 9103)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "redis")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.post_ttl", 30*time.Minute)

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("auth.bcrypt_cost", 12)

	v.SetDefault("images.dir", "images")
	v.SetDefault("images.max_upload_bytes", int64(5<<20))
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Env: v.GetString("env"),
		HTTPServer: HTTPServer{
			Address:      v.GetString("http_server.address"),
			Port:         v.GetInt("http_server.port"),
			ReadTimeout:  v.GetDuration("http_server.read_timeout"),
			WriteTimeout: v.GetDuration("http_server.write_timeout"),
			CORSOrigins:  v.GetStringSlice("http_server.cors_origins"),
		},
		GRPCServer: GRPCServer{
			Address: v.GetString("grpc_server.address"),
			Port:    v.GetInt("grpc_server.port"),
		},
		Storage: Storage{
			Driver: v.GetString("storage.driver"),
		},
		Mongo: Mongo{
			URI:          v.GetString("mongo.uri"),
			Database:     v.GetString("mongo.database"),
			Timeout:      v.GetDuration("mongo.timeout"),
			Transactions: v.GetBool("mongo.transactions"),
		},
		Database: Database{
			Username:       v.GetString("database.username"),
			Password:       v.GetString("database.password"),
			Host:           v.GetString("database.host"),
			Port:           v.GetString("database.port"),
			DbName:         v.GetString("database.db_name"),
			MigrationsPath: v.GetString("database.migrations_path"),
		},
		Prometheus: Prometheus{
			Address: v.GetString("prometheus.address"),
			Port:    v.GetInt("prometheus.port"),
		},
		Redis: Redis{
			Enabled:  v.GetBool("redis.enabled"),
			Address:  v.GetString("redis.address"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			PoolSize: v.GetInt("redis.pool_size"),
			PostTTL:  v.GetDuration("redis.post_ttl"),
		},
		Auth: Auth{
			Secret:     v.GetString("auth.secret"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
			BcryptCost: v.GetInt("auth.bcrypt_cost"),
		},
		Images: Images{
			Dir:            v.GetString("images.dir"),
			MaxUploadBytes: v.GetInt64("images.max_upload_bytes"),
		},
	}
}
