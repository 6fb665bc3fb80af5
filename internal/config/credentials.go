package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultCredentialsPath is where the credential file is read from unless
// --config says otherwise.
const DefaultCredentialsPath = "config.json"

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"
	DefaultReferer   = "https://www.bilibili.com/"
)

// ErrCredentials marks every credential loading failure.
var ErrCredentials = errors.New("credentials")

// Credentials is the opaque session material forwarded on every request.
// It is loaded once per run and passed by pointer to the network client.
type Credentials struct {
	Cookie      string `mapstructure:"cookie" validate:"required"`
	UserAgent   string `mapstructure:"user_agent" validate:"required"`
	Referer     string `mapstructure:"referer" validate:"required,url"`
	CookiesFile string `mapstructure:"cookies_file" validate:"omitempty,file"`
}

var validate = validator.New()

// LoadCredentials reads the JSON credential file at path.
func LoadCredentials(path string) (*Credentials, error) {
	if path == "" {
		path = DefaultCredentialsPath
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentials, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("referer", DefaultReferer)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrCredentials, path, err)
	}

	var c Credentials
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrCredentials, path, err)
	}
	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCredentials, path, err)
	}
	return &c, nil
}
