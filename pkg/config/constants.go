package config

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	StorageBackendSQLite = "sqlite"
	StorageBackendRedis  = "redis"
	StorageBackendMemory = "memory"

	EnvAppEnv        = "GIFTNEST_APP_ENV"
	EnvAppPort       = "GIFTNEST_APP_PORT"
	EnvRedisURL      = "GIFTNEST_REDIS_URL"
	EnvRedisAddr     = "GIFTNEST_REDIS_ADDR"
	EnvOrdersBaseURL = "GIFTNEST_ORDERS_BASE_URL"
)
