package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/shadowinterview/internal/flagx"
	"github.com/dmitrijs2005/shadowinterview/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted. Pointer
// fields distinguish "absent" from an explicit zero value.
type JsonConfig struct {
	EndpointAddrHTTP             string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC             string          `json:"endpoint_addr_grpc"`
	DatabaseDSN                  string          `json:"database_dsn"`
	SecretKey                    string          `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	RecordingsDir                string          `json:"recordings_dir"`
	RecordingsRetention          *timex.Duration `json:"recordings_retention"`
	AudioSource                  string          `json:"audio_source"`
	TranscriptionEndpoint        string          `json:"transcription_endpoint"`
	TranscriptionAPIKey          string          `json:"transcription_api_key"`
	TranscriptionModel           string          `json:"transcription_model"`
	TranscriptionLanguage        string          `json:"transcription_language"`
	SpeechEndpoint               string          `json:"speech_endpoint"`
	SpeechAPIKey                 string          `json:"speech_api_key"`
	SpeechModel                  string          `json:"speech_model"`
	SpeechVoice                  string          `json:"speech_voice"`
	S3RootUser                   string          `json:"s3_root_user"`
	S3RootPassword               string          `json:"s3_root_password"`
	S3Bucket                     string          `json:"s3_bucket"`
	S3Region                     string          `json:"s3_region"`
	S3BaseEndpoint               string          `json:"s3_base_endpoint"`
	OpenAdminRegistration        *bool           `json:"open_admin_registration"`
	LogLevel                     string          `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c/-config. Keys
// missing from the file leave the current value alone. An unreadable or
// invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	set(&config.RecordingsDir, c.RecordingsDir)
	if c.RecordingsRetention != nil {
		config.RecordingsRetention = c.RecordingsRetention.Duration
	}
	set(&config.AudioSource, c.AudioSource)
	set(&config.TranscriptionEndpoint, c.TranscriptionEndpoint)
	set(&config.TranscriptionAPIKey, c.TranscriptionAPIKey)
	set(&config.TranscriptionModel, c.TranscriptionModel)
	set(&config.TranscriptionLanguage, c.TranscriptionLanguage)
	set(&config.SpeechEndpoint, c.SpeechEndpoint)
	set(&config.SpeechAPIKey, c.SpeechAPIKey)
	set(&config.SpeechModel, c.SpeechModel)
	set(&config.SpeechVoice, c.SpeechVoice)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.OpenAdminRegistration != nil {
		config.OpenAdminRegistration = *c.OpenAdminRegistration
	}
	set(&config.LogLevel, c.LogLevel)
}
