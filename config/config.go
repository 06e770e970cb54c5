package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	TLS_DOMAINS        = ""             // e.g. "poster.example.com,poster2.example.com"
	BIND_ADDRESS       = "0.0.0.0:8080"
	MYSQL_DSN          = ""     // MySQL will be used if this is set
	SQLITE_FILE        = ""     // SQLite will be used if MYSQL_DSN is not configured and this is set
	TMP_DIR            = "/tmp" // Used for temporary local copies (in case of S3 bucket) and the cached detector model
	DEFAULT_BUCKET_DIR = ""     // Used for creating initial bucket
	DEBUG_MODE         = true
	// Face detection and cropping
	FACE_CASCADE_URL  = "https://raw.githubusercontent.com/esimov/pigo/v1.4.6/cascade/facefinder"
	FACE_MIN_QUALITY  = 5.0 // Minimum detection score for a candidate face to be accepted
	FACE_CROP_PADDING = 1.8 // Multiplier applied to the larger face dimension when sizing the square crop
	FACE_DETECT_SIZE  = 640 // Images are downscaled to this size (larger side) before running the detector
)

func init() {
	// Optional .env file, real env vars take precedence
	_ = godotenv.Load()

	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("TMP_DIR", &TMP_DIR)
	readEnvString("DEFAULT_BUCKET_DIR", &DEFAULT_BUCKET_DIR)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("FACE_CASCADE_URL", &FACE_CASCADE_URL)
	readEnvFloat("FACE_MIN_QUALITY", &FACE_MIN_QUALITY)
	readEnvFloat("FACE_CROP_PADDING", &FACE_CROP_PADDING)
	readEnvInt("FACE_DETECT_SIZE", &FACE_DETECT_SIZE)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvFloat(name string, value *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return
	}
	*value = f
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
