package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string
		Addr            string
		DebugAddr       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		// URL, when set, takes precedence over the individual fields below.
		URL        string
		Engine     string
		Host       string
		Port       string
		User       string
		Password   string
		Name       string
		DisableTLS bool
	}

	// EmailConfig selects the outgoing email transport. SendgridApiKey wins
	// over SMTPHost; when neither is set the sandbox transport is used.
	EmailConfig struct {
		SendgridApiKey string
		SMTPHost       string
		SMTPPort       int
		SMTPSecure     bool
		SMTPUser       string
		SMTPPassword   string
	}

	TwilioConfig struct {
		AccountSID     string
		AuthToken      string
		FromNumber     string
		WhatsAppNumber string
	}

	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		Build    string

		AppName          string
		SecretKey        string
		WorkDir          string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address

		JWTExpirationDelta time.Duration

		RollbarToken string

		Server   ServerConfig
		Database DatabaseConfig
		Email    EmailConfig
		Twilio   TwilioConfig
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

// NewConfig loads the app configuration from the environment.
// An optional config/.env.<env> file is loaded first if present.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "dev")
	conf.SetDefault("app_name", "EduFlow")
	conf.SetDefault("secret_key", "q2d%9hw!8+b0s)ty#e&7m3u_kz4(vgc5xr1jn6f*ol^pa$i0d")
	conf.SetDefault("frontend_base_url", "http://localhost:3000")
	conf.SetDefault("default_from_email", "noreply@maischool.com")
	conf.SetDefault("jwt_expiration_delta", 24*time.Hour)
	conf.SetDefault("server_host", "localhost")
	conf.SetDefault("server_addr", ":5000")
	conf.SetDefault("server_debug_addr", ":5001")
	conf.SetDefault("server_shutdown_timeout", 5*time.Second)
	conf.SetDefault("database_engine", "postgres")
	conf.SetDefault("database_host", "localhost")
	conf.SetDefault("database_port", "5432")
	conf.SetDefault("database_user", "postgres")
	conf.SetDefault("database_password", "postgres")
	conf.SetDefault("database_name", "mai_school")
	conf.SetDefault("database_disable_tls", true)
	conf.SetDefault("smtp_port", 587)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("test_mode", true)
	case "QA", "PROD":
		conf.SetDefault("debug", false)
	}

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:            conf.GetBool("debug"),
		TestMode:         conf.GetBool("test_mode"),
		Env:              env,
		Build:            conf.GetString("build"),
		AppName:          conf.GetString("app_name"),
		SecretKey:        conf.GetString("secret_key"),
		WorkDir:          wd,
		FrontendBaseURL:  conf.GetString("frontend_base_url"),
		DefaultFromEmail: mail.Address{Name: conf.GetString("app_name"), Address: conf.GetString("default_from_email")},

		JWTExpirationDelta: conf.GetDuration("jwt_expiration_delta"),

		RollbarToken: conf.GetString("rollbar_token"),

		Server: ServerConfig{
			Host:            conf.GetString("server_host"),
			Addr:            conf.GetString("server_addr"),
			DebugAddr:       conf.GetString("server_debug_addr"),
			ShutdownTimeout: conf.GetDuration("server_shutdown_timeout"),
		},
		Database: DatabaseConfig{
			URL:        conf.GetString("database_url"),
			Engine:     conf.GetString("database_engine"),
			Host:       conf.GetString("database_host"),
			Port:       conf.GetString("database_port"),
			User:       conf.GetString("database_user"),
			Password:   conf.GetString("database_password"),
			Name:       conf.GetString("database_name"),
			DisableTLS: conf.GetBool("database_disable_tls"),
		},
		Email: EmailConfig{
			SendgridApiKey: conf.GetString("sendgrid_api_key"),
			SMTPHost:       conf.GetString("smtp_host"),
			SMTPPort:       conf.GetInt("smtp_port"),
			SMTPSecure:     conf.GetBool("smtp_secure"),
			SMTPUser:       conf.GetString("smtp_user"),
			SMTPPassword:   conf.GetString("smtp_pass"),
		},
		Twilio: TwilioConfig{
			AccountSID:     conf.GetString("twilio_account_sid"),
			AuthToken:      conf.GetString("twilio_auth_token"),
			FromNumber:     conf.GetString("twilio_phone_number"),
			WhatsAppNumber: conf.GetString("twilio_whatsapp_number"),
		},
	}
}
