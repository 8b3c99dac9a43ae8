package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"market-provisioner/core/logger"
	"market-provisioner/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultPath is where the provisioning document is looked up when neither
// the --config flag nor PROVISIONER_CONFIG is set.
const DefaultPath = "/config/config.yaml"

// EnvPath is the environment variable that overrides the document location.
const EnvPath = "PROVISIONER_CONFIG"

var (
	// ErrConfigNotFound indicates the provisioning document does not exist.
	ErrConfigNotFound = errors.New("config document not found")
	// ErrConfigParse indicates the provisioning document could not be parsed.
	ErrConfigParse = errors.New("config document malformed")
)

// Config is the parsed provisioning document plus ambient settings.
// It is loaded once per run and treated as immutable afterwards.
type Config struct {
	// Credentials holds the storage backend credentials.
	Credentials Credentials `mapstructure:"credentials"`
	// Storage describes the backend endpoint and the bucket/object tree to provision.
	Storage Storage `mapstructure:"storage"`
	// Provision holds runtime knobs of the provisioning process itself.
	Provision Provision `mapstructure:"provision"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// Credentials are passed through to the storage client verbatim.
type Credentials struct {
	User     string `mapstructure:"user" default:"minioadmin"`
	Password string `mapstructure:"password" default:"minioadmin"`
}

// Storage describes the backend connection and the tree to materialize.
type Storage struct {
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// BaseBucket is the bucket everything else is provisioned under.
	BaseBucket string `mapstructure:"base_bucket" default:"markets"`
	// Markets is the ordered list of markets to provision. Absent means
	// "nothing to provision", which is not an error.
	Markets []Market `mapstructure:"markets"`
}

// Market describes one market's bucket segment and artifacts.
type Market struct {
	// Name becomes the bucket-path segment under the base bucket. Must be
	// unique within the document.
	Name string `mapstructure:"name"`
	// DataPath is the local source file holding the market data.
	DataPath string `mapstructure:"data_path"`
	// DataFile is the destination object name within the market segment.
	DataFile string `mapstructure:"data_file"`
	// Strategies is the ordered list of strategy artifacts for this market.
	Strategies []Strategy `mapstructure:"strategies"`
}

// Strategy describes one strategy artifact and its descriptive tags.
type Strategy struct {
	// SourcePath is the local source file of the strategy artifact.
	SourcePath string `mapstructure:"source_path"`
	// File is the destination object name under the strategies segment.
	File string `mapstructure:"file"`
	// Type, Description and PairFinding become the object's tag values,
	// verbatim.
	Type        string `mapstructure:"type"`
	Description string `mapstructure:"description"`
	PairFinding string `mapstructure:"pair_finding"`
}

// Provision holds the runtime knobs of the provisioning process.
type Provision struct {
	// MaxReadyChecks caps the number of readiness handshake attempts.
	MaxReadyChecks int `mapstructure:"max_ready_checks" default:"30"`
	// ReadyCheckDelaySeconds is the fixed delay between handshake attempts.
	ReadyCheckDelaySeconds int `mapstructure:"ready_check_delay_seconds" default:"2"`
	// ServerCommand, when non-empty, is launched as a detached background
	// process before polling. Empty means the backend is managed externally
	// (e.g. a compose service that is already up).
	ServerCommand string `mapstructure:"server_command" default:""`
	// ProjectTag and VersionTag are attached to every market data object.
	ProjectTag string `mapstructure:"project_tag" default:"Test"`
	VersionTag string `mapstructure:"version_tag" default:"1.0"`
}

// Path resolves the provisioning document location: PROVISIONER_CONFIG if
// set, DefaultPath otherwise.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// LoadConfig loads the provisioning document from the given path, layering
// .env and environment variables over it for the ambient settings.
func LoadConfig(path string) (*Config, error) {
	// Ignore error if .env doesn't exist (e.g. production)
	_ = godotenv.Overload(".env")

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. STORAGE_ENDPOINT -> storage.endpoint)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// validate enforces document invariants that viper cannot express.
func (c *Config) validate() error {
	seen := make(map[string]struct{}, len(c.Storage.Markets))
	for _, m := range c.Storage.Markets {
		if m.Name == "" {
			return fmt.Errorf("%w: market with empty name", ErrConfigParse)
		}
		if _, dup := seen[m.Name]; dup {
			return fmt.Errorf("%w: duplicate market name %q", ErrConfigParse, m.Name)
		}
		seen[m.Name] = struct{}{}
	}
	return nil
}

// StorageClient assembles the storage client configuration from the
// credentials and endpoint sections of the document.
func (c *Config) StorageClient() storage.Config {
	return storage.Config{
		Endpoint:  c.Storage.Endpoint,
		AccessKey: c.Credentials.User,
		SecretKey: c.Credentials.Password,
		UseSSL:    c.Storage.UseSSL,
	}
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Slices (the market tree) carry no defaults
		if field.Type.Kind() == reflect.Slice {
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
