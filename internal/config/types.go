package config

// ConfigLogger настройки логирования
type ConfigLogger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text | json
}

// ConfigServer настройки сервера
type ConfigServer struct {
	PortGRPC                int `mapstructure:"port_grpc"`
	PortHTTP                int `mapstructure:"port_http"`
	HTTPReadTimeout         int `mapstructure:"http_read_timeout"`
	HTTPWriteTimeout        int `mapstructure:"http_write_timeout"`
	HTTPIdleTimeout         int `mapstructure:"http_idle_timeout"`
	HTTPReadHeaderTimeout   int `mapstructure:"http_read_header_timeout"`
	GracefulShutdownTimeout int `mapstructure:"graceful_shutdown_timeout"`
}

// ConfigGateway настройки HTTP Gateway
type ConfigGateway struct {
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
	CORSMaxAge         int    `mapstructure:"cors_max_age"`
	RateLimitRPS       int    `mapstructure:"rate_limit_rps"`
	RateLimitBurst     int    `mapstructure:"rate_limit_burst"`
}

// ConfigStorage настройки хранилища заметок
type ConfigStorage struct {
	Driver string `mapstructure:"driver"` // memory | bolt
	Path   string `mapstructure:"path"`
}

// ConfigAuth настройки токенов сессии
type ConfigAuth struct {
	JWTSecret       string `mapstructure:"jwt_secret"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
}

// ConfigClient настройки CLI клиента
type ConfigClient struct {
	Address        string `mapstructure:"address"`
	SessionFile    string `mapstructure:"session_file"`
	OfflinePath    string `mapstructure:"offline_path"`
	RequestTimeout int    `mapstructure:"request_timeout"`
}

// Config основная структура конфигурации
type Config struct {
	Logger  *ConfigLogger  `mapstructure:"logger"`
	Server  *ConfigServer  `mapstructure:"server"`
	Gateway *ConfigGateway `mapstructure:"gateway"`
	Storage *ConfigStorage `mapstructure:"storage"`
	Auth    *ConfigAuth    `mapstructure:"auth"`
	Client  *ConfigClient  `mapstructure:"client"`
}
