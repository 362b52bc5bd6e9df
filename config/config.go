package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"

	defaultBackendBaseURL = "https://api.khorshidi.dev/api/v1"
	defaultBackendTimeout = 15 * time.Second

	defaultTokenTTL                  = 30 * 24 * time.Hour
	defaultIncompleteRegistrationTTL = 12 * time.Hour
	defaultClientIdleTTL             = 2 * time.Hour
	defaultAuthGracePeriod           = 2 * time.Second
	defaultCookieName                = "barber_client"

	defaultDoubleSlotThreshold = 40
	defaultDepositPercent      = 50
	defaultHistoryLimit        = 10

	// StorageProviderMemory keeps persisted client state in process memory.
	StorageProviderMemory = "memory"
	// StorageProviderRedis keeps persisted client state in Redis.
	StorageProviderRedis = "redis"

	// EnvDevelopment enables development-only behaviour such as surfacing OTP codes.
	EnvDevelopment = "development"
)

// DefaultFridayAllowedSlots are the morning and noon slot codes bookable on Fridays.
var DefaultFridayAllowedSlots = []string{
	"10-1030", "1030-11", "11-1130", "1130-12",
	"12-1230", "1230-13", "13-1330",
}

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		// AllowOrigins lists the front-end origins allowed to send the client cookie
		AllowOrigins []string `json:"allowOrigins" yaml:"allowOrigins"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Backend is the remote booking/payment API this service fronts
	Backend BackendConfig `json:"backend" yaml:"backend"`

	Session SessionConfig `json:"session" yaml:"session"`

	Storage StorageConfig `json:"storage" yaml:"storage"`

	Redis *RedisConfig `json:"redis" yaml:"redis"`

	SecretKey struct {
		// Storage is the key used to seal bearer tokens at rest (32 bytes, hex or raw)
		Storage string `json:"storage" yaml:"storage"`
	} `json:"secretKey" yaml:"secretKey"`

	Reservation ReservationConfig `json:"reservation" yaml:"reservation"`

	// QRCode configuration for booking confirmation codes
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`

	// TestRoutes configuration for testing endpoints
	TestRoutes *TestRoutesConfig `json:"testRoutes" yaml:"testRoutes"`
}

// BackendConfig defines how the booking backend is reached
type BackendConfig struct {
	BaseURL string        `json:"baseUrl" yaml:"baseUrl"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// SessionConfig defines client session and authentication lifetimes
type SessionConfig struct {
	TokenTTL                  time.Duration `json:"tokenTTL" yaml:"tokenTTL"`
	IncompleteRegistrationTTL time.Duration `json:"incompleteRegistrationTTL" yaml:"incompleteRegistrationTTL"`
	ClientIdleTTL             time.Duration `json:"clientIdleTTL" yaml:"clientIdleTTL"`
	AuthGracePeriod           time.Duration `json:"authGracePeriod" yaml:"authGracePeriod"`
	CookieName                string        `json:"cookieName" yaml:"cookieName"`
	CookieSecure              bool          `json:"cookieSecure" yaml:"cookieSecure"`

	// OTPRequestsPerHour caps OTP requests per client; zero disables the throttle
	OTPRequestsPerHour int `json:"otpRequestsPerHour" yaml:"otpRequestsPerHour"`
}

// StorageConfig selects the ClientStorage implementation
type StorageConfig struct {
	Provider  string `json:"provider" yaml:"provider"`
	KeyPrefix string `json:"keyPrefix" yaml:"keyPrefix"`
}

// RedisConfig defines the Redis connection used by the redis storage provider
type RedisConfig struct {
	URL string `json:"url" yaml:"url"`
}

// ReservationConfig defines booking rules applied on the client side
type ReservationConfig struct {
	DoubleSlotThresholdMinutes int      `json:"doubleSlotThresholdMinutes" yaml:"doubleSlotThresholdMinutes"`
	DepositPercent             int      `json:"depositPercent" yaml:"depositPercent"`
	FridayAllowedSlots         []string `json:"fridayAllowedSlots" yaml:"fridayAllowedSlots"`
	DisabledDates              []string `json:"disabledDates" yaml:"disabledDates"`
	HistoryPageLimit           int      `json:"historyPageLimit" yaml:"historyPageLimit"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

// TestRoutesConfig defines configuration for testing endpoints
type TestRoutesConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env.Env, EnvDevelopment)
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Environment overrides, e.g. BACKEND_BASEURL -> backend.baseUrl
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	return cfg, nil
}

// ApplyDefaults fills every zero-valued setting with its built-in default.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.HTTP.MaxRequestBodySize) == "" {
		c.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		c.Backend.BaseURL = defaultBackendBaseURL
	}
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = defaultBackendTimeout
	}

	if c.Session.TokenTTL <= 0 {
		c.Session.TokenTTL = defaultTokenTTL
	}
	if c.Session.IncompleteRegistrationTTL <= 0 {
		c.Session.IncompleteRegistrationTTL = defaultIncompleteRegistrationTTL
	}
	if c.Session.ClientIdleTTL <= 0 {
		c.Session.ClientIdleTTL = defaultClientIdleTTL
	}
	if c.Session.AuthGracePeriod <= 0 {
		c.Session.AuthGracePeriod = defaultAuthGracePeriod
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = defaultCookieName
	}

	if c.Storage.Provider == "" {
		c.Storage.Provider = StorageProviderMemory
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "barber:client:"
	}

	if c.Reservation.DoubleSlotThresholdMinutes <= 0 {
		c.Reservation.DoubleSlotThresholdMinutes = defaultDoubleSlotThreshold
	}
	if c.Reservation.DepositPercent <= 0 {
		c.Reservation.DepositPercent = defaultDepositPercent
	}
	if len(c.Reservation.FridayAllowedSlots) == 0 {
		c.Reservation.FridayAllowedSlots = append([]string(nil), DefaultFridayAllowedSlots...)
	}
	if c.Reservation.HistoryPageLimit <= 0 {
		c.Reservation.HistoryPageLimit = defaultHistoryLimit
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
