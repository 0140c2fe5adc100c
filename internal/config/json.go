package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		LogLevel string `json:"log_level"`
		LogFile  string `json:"log_file"`
	} `json:"app,omitempty"`

	Crypto struct {
		Algorithm     string `json:"algorithm"`
		KeySize       int    `json:"key_size"`
		IVLength      int    `json:"iv_length"`
		KDF           string `json:"kdf"`
		Hash          string `json:"hash"`
		Iterations    int    `json:"iterations"`
		SaltLength    int    `json:"salt_length"`
		Argon2Time    int    `json:"argon2_time"`
		Argon2Memory  uint32 `json:"argon2_memory"`
		Argon2Threads uint8  `json:"argon2_threads"`
	} `json:"crypto,omitempty"`

	Session struct {
		Mode        string   `json:"mode"`
		Timeout     Duration `json:"timeout"`
		TimedWindow Duration `json:"timed_window"`
	} `json:"session,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Files struct {
			Dir string `json:"dir"`
		} `json:"files,omitempty"`
	} `json:"storage,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			LogLevel: jsonCfg.App.LogLevel,
			LogFile:  jsonCfg.App.LogFile,
		},
		Crypto: Crypto{
			Algorithm:     jsonCfg.Crypto.Algorithm,
			KeySize:       jsonCfg.Crypto.KeySize,
			IVLength:      jsonCfg.Crypto.IVLength,
			KDF:           jsonCfg.Crypto.KDF,
			Hash:          jsonCfg.Crypto.Hash,
			Iterations:    jsonCfg.Crypto.Iterations,
			SaltLength:    jsonCfg.Crypto.SaltLength,
			Argon2Time:    jsonCfg.Crypto.Argon2Time,
			Argon2Memory:  jsonCfg.Crypto.Argon2Memory,
			Argon2Threads: jsonCfg.Crypto.Argon2Threads,
		},
		Session: Session{
			Mode:        jsonCfg.Session.Mode,
			Timeout:     time.Duration(jsonCfg.Session.Timeout),
			TimedWindow: time.Duration(jsonCfg.Session.TimedWindow),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Files: Files{
				Dir: jsonCfg.Storage.Files.Dir,
			},
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
