package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/shadowinterview/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv overlays values from the process environment. A dotenv file
// (-env flag, otherwise ./.env if present) is loaded first; variables that
// are already set win over the file.
//
// OPENAI_API_KEY seeds both TRANSCRIPTION_API_KEY and SPEECH_API_KEY.
// Malformed durations or booleans panic, like a broken JSON file does.
func parseEnv(config *Config) {
	loadEnvFile()

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := os.LookupEnv(name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(fmt.Errorf("env %s: %w", name, err))
			}
			*dst = d
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := os.LookupEnv(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				panic(fmt.Errorf("env %s: %w", name, err))
			}
			*dst = b
		}
	}

	str("HTTP_ADDRESS", &config.EndpointAddrHTTP)
	str("GRPC_ADDRESS", &config.EndpointAddrGRPC)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("SECRET_KEY", &config.SecretKey)
	dur("ACCESS_TOKEN_TTL", &config.AccessTokenValidityDuration)
	dur("REFRESH_TOKEN_TTL", &config.RefreshTokenValidityDuration)
	str("RECORDINGS_DIR", &config.RecordingsDir)
	dur("RECORDINGS_RETENTION", &config.RecordingsRetention)
	str("AUDIO_SOURCE", &config.AudioSource)

	str("OPENAI_API_KEY", &config.TranscriptionAPIKey)
	str("OPENAI_API_KEY", &config.SpeechAPIKey)
	str("TRANSCRIPTION_ENDPOINT", &config.TranscriptionEndpoint)
	str("TRANSCRIPTION_API_KEY", &config.TranscriptionAPIKey)
	str("TRANSCRIPTION_MODEL", &config.TranscriptionModel)
	str("TRANSCRIPTION_LANGUAGE", &config.TranscriptionLanguage)
	str("SPEECH_ENDPOINT", &config.SpeechEndpoint)
	str("SPEECH_API_KEY", &config.SpeechAPIKey)
	str("SPEECH_MODEL", &config.SpeechModel)
	str("SPEECH_VOICE", &config.SpeechVoice)

	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	boolean("OPEN_ADMIN_REGISTRATION", &config.OpenAdminRegistration)
	str("LOG_LEVEL", &config.LogLevel)
}

func loadEnvFile() {
	path := flagx.EnvFileFlags()
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	err := godotenv.Load(path)
	if err == nil {
		return
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return
	}
	panic(fmt.Errorf("load env file %s: %w", path, err))
}
