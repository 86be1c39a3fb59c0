package app

import (
	"strings"
	"time"

	"github.com/studypath/studypath-backend/internal/pkg/logger"
	"github.com/studypath/studypath-backend/internal/utils"
)

type Config struct {
	Port         string
	JWTSecretKey string
	RedisAddr    string
	RedisChannel string
	CORSOrigins  []string
	WriteTimeout time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
	redisChannel := utils.GetEnv("REDIS_CHANNEL", "progress", log)
	corsOrigins := utils.GetEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173", log)
	writeTimeoutSeconds := utils.GetEnvAsInt("MUTATION_WRITE_TIMEOUT", 10, log)

	origins := []string{}
	for _, o := range strings.Split(corsOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Config{
		Port:         port,
		JWTSecretKey: jwtSecretKey,
		RedisAddr:    redisAddr,
		RedisChannel: redisChannel,
		CORSOrigins:  origins,
		WriteTimeout: time.Duration(writeTimeoutSeconds) * time.Second,
	}
}
