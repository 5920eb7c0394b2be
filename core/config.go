package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName      string
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		StudentName  string
		RollbarToken string
		Server       ServerConfig
		Database     DatabaseConfig
		Storage      StorageConfig
	}

	ServerConfig struct {
		Host              string
		Address           string
		DebugHost         string
		ShutdownTimeout   time.Duration
		LatencyMin        time.Duration
		LatencyMax        time.Duration
		DownloadStepDelay time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	StorageConfig struct {
		Backend      string // memory | postgres
		NotesBackend string // store (the main backend) | redis
		RedisAddress string
		RedisDB      int
		NotesKey     string
	}
)

func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewConfig reads the configuration from defaults, `config/.env.<env>` and the environment.
// ENV selects the environment (DEV (local; default), TEST, QA, PROD) which also is the env vars prefix.
// e.g. DEV_SERVER_ADDRESS=:8080
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "LearnHub")
	conf.SetDefault("build", "develop")
	conf.SetDefault("studentName", "John Doe")
	conf.SetDefault("rollbarToken", "")

	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.debugHost", ":4000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.latencyMin", 200*time.Millisecond)
	conf.SetDefault("server.latencyMax", 400*time.Millisecond)
	conf.SetDefault("server.downloadStepDelay", 150*time.Millisecond)

	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", 5432)
	conf.SetDefault("database.name", "learnhub")
	conf.SetDefault("database.user", "learnhub")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.adminUser", "")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.disableTLS", true)

	conf.SetDefault("storage.backend", "memory")
	conf.SetDefault("storage.notesBackend", "store")
	conf.SetDefault("storage.redisAddress", "localhost:6379")
	conf.SetDefault("storage.redisDB", 0)
	conf.SetDefault("storage.notesKey", "learnhub_notes")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
		conf.SetDefault("server.latencyMin", time.Duration(0))
		conf.SetDefault("server.latencyMax", time.Duration(0))
		conf.SetDefault("server.downloadStepDelay", time.Duration(0))
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		AppName:      conf.GetString("appName"),
		Env:          env,
		Build:        conf.GetString("build"),
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		StudentName:  conf.GetString("studentName"),
		RollbarToken: conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:              conf.GetString("server.host"),
			Address:           conf.GetString("server.address"),
			DebugHost:         conf.GetString("server.debugHost"),
			ShutdownTimeout:   conf.GetDuration("server.shutdownTimeout"),
			LatencyMin:        conf.GetDuration("server.latencyMin"),
			LatencyMax:        conf.GetDuration("server.latencyMax"),
			DownloadStepDelay: conf.GetDuration("server.downloadStepDelay"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("database.engine"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetInt("database.port"),
			Name:          conf.GetString("database.name"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
		},
		Storage: StorageConfig{
			Backend:      conf.GetString("storage.backend"),
			NotesBackend: conf.GetString("storage.notesBackend"),
			RedisAddress: conf.GetString("storage.redisAddress"),
			RedisDB:      conf.GetInt("storage.redisDB"),
			NotesKey:     conf.GetString("storage.notesKey"),
		},
	}
}
