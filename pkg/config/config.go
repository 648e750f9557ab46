package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	HTTP   HTTPConfig
	JWT    JWTConfig
	Store  StoreConfig
	Remote RemoteConfig
	Sync   SyncConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// StoreConfig configuración del almacén local SQLite.
// CutoverDate es la fecha de corte: registros con fecha de ocurrencia anterior
// son históricos y no tocan el snapshot de stock.
type StoreConfig struct {
	Path        string // archivo .db; ":memory:" para tests
	CutoverDate time.Time
}

// RemoteConfig configuración del almacén remoto (API REST estilo PostgREST).
// Si URL está vacío, la sincronización queda deshabilitada (modo solo local).
type RemoteConfig struct {
	URL    string
	APIKey string
}

// SyncConfig configuración del ciclo de sincronización.
type SyncConfig struct {
	Tables []string // tablas a sincronizar; vacío = todas las conocidas
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, SQLITE_PATH, REMOTE_URL, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cutoverRaw := getString(v, "STOCK_CUTOVER_DATE", "2026-01-01")
	cutover, err := time.Parse("2006-01-02", cutoverRaw)
	if err != nil {
		return nil, fmt.Errorf("STOCK_CUTOVER_DATE inválida (%q): %w", cutoverRaw, err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "agroledger"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "agroledger"),
		},
		Store: StoreConfig{
			Path:        getString(v, "SQLITE_PATH", "agroledger.db"),
			CutoverDate: cutover,
		},
		Remote: RemoteConfig{
			URL:    getString(v, "REMOTE_URL", ""),
			APIKey: getString(v, "REMOTE_API_KEY", ""),
		},
		Sync: SyncConfig{
			Tables: splitTables(getString(v, "SYNC_TABLES", "")),
		},
	}

	return cfg, nil
}

func splitTables(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
