package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var (
	db *gorm.DB

	// upstreamDb is the read-only payroll source (PeopleSoft mirror).
	// Never written to; staging sync only selects from it.
	upstreamDb *gorm.DB
)

func GetDB() *gorm.DB {
	return db
}

func GetUpstreamDB() *gorm.DB {
	return upstreamDb
}

func init() {
	// Load env from .env
	godotenv.Load()
	// Do NOT block startup in init() waiting for DB; the HTTP server must
	// start listening first and gate requests on readiness.
}

// ConnectDatabaseWithRetry connects the local recon database and sets the
// global DB. Call this from main() AFTER the HTTP server is listening.
func ConnectDatabaseWithRetry() {
	dsn := mysqlDSN(
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)

	var attempt int
	for {
		attempt++
		var err error
		db, err = gorm.Open(mysql.Open(dsn), initConfig())
		if err == nil {
			tunePool(db)
			if pluginErr := db.Use(otelgorm.NewPlugin()); pluginErr != nil {
				log.Printf("db connected but failed to install otelgorm plugin: %v", pluginErr)
			}
			log.Printf("connected to recon database (attempt=%d)", attempt)
			return
		}

		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		log.Printf("failed to connect recon database (attempt=%d): %v; retrying in %s", attempt, err, sleep)
		time.Sleep(sleep)
	}
}

// ConnectUpstreamDatabaseWithRetry connects the upstream payroll source.
// Separate credentials; typically a replica with a read-only account.
func ConnectUpstreamDatabaseWithRetry() {
	dsn := mysqlDSN(
		os.Getenv("UPSTREAM_DB_USER"),
		os.Getenv("UPSTREAM_DB_PASSWORD"),
		os.Getenv("UPSTREAM_DB_HOST"),
		os.Getenv("UPSTREAM_DB_PORT"),
		os.Getenv("UPSTREAM_DB_NAME"),
	)

	var attempt int
	for {
		attempt++
		var err error
		upstreamDb, err = gorm.Open(mysql.Open(dsn), initConfig())
		if err == nil {
			tunePool(upstreamDb)
			if pluginErr := upstreamDb.Use(otelgorm.NewPlugin()); pluginErr != nil {
				log.Printf("upstream db connected but failed to install otelgorm plugin: %v", pluginErr)
			}
			log.Printf("connected to upstream payroll database (attempt=%d)", attempt)
			return
		}

		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		log.Printf("failed to connect upstream payroll database (attempt=%d): %v; retrying in %s", attempt, err, sleep)
		time.Sleep(sleep)
	}
}

func mysqlDSN(user, password, host, port, name string) string {
	network := "tcp"
	address := fmt.Sprintf("%s:%s", host, port)

	// When host is "/cloudsql/<CONNECTION_NAME>", connect over the Unix
	// domain socket provided by the Cloud SQL Auth Proxy.
	if strings.HasPrefix(host, "/cloudsql/") {
		network = "unix"
		address = host
	}

	return fmt.Sprintf("%s:%s@%s(%s)/%s?multiStatements=true&parseTime=true",
		user,
		password,
		network,
		address,
		name,
	)
}

// Pool tuning. Env overrides (optional):
// - DB_MAX_OPEN_CONNS (default 20)
// - DB_MAX_IDLE_CONNS (default 10)
// - DB_CONN_MAX_LIFETIME_SECONDS (default 300)
// - DB_CONN_MAX_IDLE_TIME_SECONDS (default 60)
func tunePool(d *gorm.DB) {
	sqlDB, err := d.DB()
	if err != nil || sqlDB == nil {
		return
	}
	maxOpen := intFromEnv("DB_MAX_OPEN_CONNS", 20)
	maxIdle := intFromEnv("DB_MAX_IDLE_CONNS", 10)
	connMaxLife := time.Duration(intFromEnv("DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second
	connMaxIdle := time.Duration(intFromEnv("DB_CONN_MAX_IDLE_TIME_SECONDS", 60)) * time.Second

	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle >= 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}
	if connMaxLife > 0 {
		sqlDB.SetConnMaxLifetime(connMaxLife)
	}
	if connMaxIdle > 0 {
		sqlDB.SetConnMaxIdleTime(connMaxIdle)
	}
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// InitConfig Initialize Config
func initConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         initLog(),
		NamingStrategy: initNamingStrategy(),
	}
}

// InitLog Connection Log Configuration
func initLog() logger.Interface {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			Colorful:      false,
			LogLevel:      logger.Error,
			SlowThreshold: time.Second,
		},
	)
	return newLogger
}

// InitNamingStrategy Init NamingStrategy
func initNamingStrategy() *schema.NamingStrategy {
	return &schema.NamingStrategy{
		SingularTable: false,
		TablePrefix:   "",
	}
}
