package config

import (
	"fmt"
	"net/http"

	"github.com/caarlos0/env/v10"
	"go.uber.org/zap"
)

// Config holds the project config values
type Config struct {
	URL           string `env:"DB_URI"`
	DatabaseName  string `env:"DB_NAME" envDefault:"lawbuddy"`
	Port          string `env:"PORT" envDefault:"8080"`
	JWTSecret     string `env:"JWT_SECRET"`
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"uploads"`
	CloudinaryURL string `env:"CLOUDINARY_URL"`
	SendgridKey   string `env:"SENDGRID_API_KEY"`
	SendgridFrom  string `env:"SENDGRID_FROM_EMAIL" envDefault:"no-reply@lawbuddy.com"`
}

// New sets up the zap logger and parses the config from the environment
func New() *Config {
	//setup zap logger and replace default logger
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		zap.S().With(err).Error("failed to parse config from environment")
	}
	return cfg
}

// ErrorStatus logs the underlying error with context and writes the given
// status code with a descriptive JSON body. The error detail stays
// server-side and is never written to the caller.
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	w.Write([]byte(fmt.Sprintf(`{"error": %q}`, message)))
}
