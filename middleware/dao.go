package middleware

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	_ "github.com/go-sql-driver/mysql"
	"github.com/gomodule/redigo/redis"
	log "github.com/sirupsen/logrus"

	"routing/config"
)

// db
var db *sql.DB

// Redis
var pool *redis.Pool

// ConnectToDB opens the shared MySQL pool for the topology tables.
func ConnectToDB(dbConfig config.DatabaseConfig) *sql.DB {

	if db != nil {
		return db
	}

	// DSN: [username[:password]@][protocol[(address)]]/dbname[?param1=value1&...]
	dsn := fmt.Sprintf("%s:%s@tcp(127.0.0.1:3306)/%s?charset=utf8&parseTime=True&loc=Local",
		dbConfig.Username,
		dbConfig.Password,
		dbConfig.DBName,
	)
	var err error

	db, err = sql.Open("mysql", dsn)
	if err != nil {
		log.Errorf("Error ConnectToDB: %v", err)
		return nil
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Errorf("Error pinging the database: %v", err)
		return nil
	}

	log.Infof("Database connection pool initialized successfully.")
	return db
}

func CloseDB() {
	if db != nil {
		err := db.Close()
		if err != nil {
			log.Errorf("Error closing the database connection pool: %v", err)
		} else {
			log.Infof("Database connection pool closed.")
		}
	}
}

// CreateRedisPool initializes the shared Redis pool for the task archive.
func CreateRedisPool(address string) *redis.Pool {
	pool = &redis.Pool{
		MaxIdle:     10,
		MaxActive:   20,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			c, err := redis.Dial("tcp", address)
			if err != nil {
				log.Errorf("Failed to connect to Redis: %v", err)
				return nil, err
			}
			return c, err
		},
	}
	return pool
}

func GetRedisConn() redis.Conn {
	return pool.Get()
}

func CloseRedisPool() {
	if pool != nil {
		err := pool.Close()
		if err != nil {
			log.Errorf("Error closing Redis connection pool: %v", err)
		} else {
			log.Infof("Redis connection pool closed.")
		}
	}
}

// LoadConfig reads the TOML configuration file.
func LoadConfig(path string) (*config.Config, error) {
	var cfg config.Config
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("error getting absolute path for %s: %w", path, err)
	}

	log.Infof("Attempting to load configuration from: %s", absPath)

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("error decoding TOML file %s: %w", path, err)
	}
	return &cfg, nil
}
