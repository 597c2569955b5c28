package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Warehouse WarehouseConfig `mapstructure:"warehouse"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Security  SecurityConfig  `mapstructure:"security"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	UI        UIConfig        `mapstructure:"ui"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	Host string `mapstructure:"host"`
}

// WarehouseConfig selects and configures the backend that holds the registry.
type WarehouseConfig struct {
	Type       string           `mapstructure:"type"`
	Databricks DatabricksConfig `mapstructure:"databricks"`
	Snowflake  SnowflakeConfig  `mapstructure:"snowflake"`
	BigQuery   BigQueryConfig   `mapstructure:"bigquery"`
}

type DatabricksConfig struct {
	Host        string `mapstructure:"host"`
	Token       string `mapstructure:"token"`
	HTTPPath    string `mapstructure:"http_path"`
	WarehouseID string `mapstructure:"warehouse_id"`
}

type SnowflakeConfig struct {
	Account   string `mapstructure:"account"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Role      string `mapstructure:"role"`
	Warehouse string `mapstructure:"warehouse"`
}

type BigQueryConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	Location        string `mapstructure:"location"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// RegistryConfig names the warehouse table that holds the table definitions.
type RegistryConfig struct {
	Catalog string `mapstructure:"catalog"`
	Schema  string `mapstructure:"schema"`
	Table   string `mapstructure:"table"`
}

// AuditConfig configures the optional MySQL revision store.
type AuditConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type SecurityConfig struct {
	JWTSecret          string        `mapstructure:"jwt_secret"`
	JWTExpiration      time.Duration `mapstructure:"jwt_expiration"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst"`
	EnableAuth         bool          `mapstructure:"enable_auth"`
	EnableRateLimit    bool          `mapstructure:"enable_rate_limit"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type UIConfig struct {
	Title        string `mapstructure:"title"`
	TemplateGlob string `mapstructure:"template_glob"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.AutomaticEnv()
	bindWarehouseEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use defaults and environment
			fmt.Println("Config file not found, using defaults and environment variables")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.host", "0.0.0.0")

	// Warehouse defaults
	viper.SetDefault("warehouse.type", "databricks")

	// Registry defaults
	viper.SetDefault("registry.catalog", "romy_demo")
	viper.SetDefault("registry.schema", "dlt_cdc_scd_demo")
	viper.SetDefault("registry.table", "2_table_config")

	// Audit store defaults
	viper.SetDefault("audit.enabled", false)
	viper.SetDefault("audit.host", "localhost")
	viper.SetDefault("audit.port", "3306")
	viper.SetDefault("audit.database", "tableconfig_audit")
	viper.SetDefault("audit.username", "tableconfig")

	// Security defaults
	viper.SetDefault("security.jwt_secret", "your-secret-key")
	viper.SetDefault("security.jwt_expiration", "24h")
	viper.SetDefault("security.rate_limit_per_minute", 120)
	viper.SetDefault("security.rate_limit_burst", 20)
	viper.SetDefault("security.enable_auth", false)
	viper.SetDefault("security.enable_rate_limit", true)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	// UI defaults
	viper.SetDefault("ui.title", "Table Config Editor")
	viper.SetDefault("ui.template_glob", "web/templates/*.html")
}

// bindWarehouseEnv maps the conventional Databricks environment variables onto
// the warehouse section so existing shells keep working.
func bindWarehouseEnv() {
	viper.BindEnv("warehouse.databricks.host", "DATABRICKS_SERVER_HOSTNAME")
	viper.BindEnv("warehouse.databricks.http_path", "DATABRICKS_HTTP_PATH")
	viper.BindEnv("warehouse.databricks.token", "DATABRICKS_TOKEN")
	viper.BindEnv("warehouse.snowflake.password", "SNOWFLAKE_PASSWORD")
	viper.BindEnv("security.jwt_secret", "JWT_SECRET")
}
