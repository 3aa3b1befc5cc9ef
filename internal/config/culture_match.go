package config

import (
	"log"
	"strings"
	"sync"
	"time"
)

const (
	CultureMatchModeProcess = "process"
	CultureMatchModeHTTP    = "http"
)

type CultureMatchConfig struct {
	Mode string
	// Python is the interpreter (or any executable) that runs Script.
	Python string
	Script string
	// Dir is the working directory of the scoring process. The script loads
	// its company dataset relative to it.
	Dir     string
	Timeout time.Duration
}

var (
	cultureMatchConfig *CultureMatchConfig
	cultureMatchOnce   sync.Once
)

func LoadCultureMatchConfig() *CultureMatchConfig {
	cultureMatchOnce.Do(func() {
		mode := strings.ToLower(getEnv("CULTURE_MATCH_MODE", CultureMatchModeProcess))
		if mode != CultureMatchModeProcess && mode != CultureMatchModeHTTP {
			log.Printf("Warning: unknown CULTURE_MATCH_MODE %q, defaulting to %s", mode, CultureMatchModeProcess)
			mode = CultureMatchModeProcess
		}
		cultureMatchConfig = &CultureMatchConfig{
			Mode:    mode,
			Python:  getEnv("CULTURE_MATCH_PYTHON", "python"),
			Script:  getEnv("CULTURE_MATCH_SCRIPT", "culturematch.py"),
			Dir:     getEnv("CULTURE_MATCH_DIR", ""),
			Timeout: getEnvAsDuration("CULTURE_MATCH_TIMEOUT", 60*time.Second),
		}
	})
	return cultureMatchConfig
}
