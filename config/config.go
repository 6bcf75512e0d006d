package config

import (
	"os"
	"strconv"
)

// Config holds the analysis tunables read from the environment by the
// surrounding service. The core packages never read these globally; they are
// passed in as explicit parameters.
type Config struct {
	HotspotMinReports    int
	HotspotRadiusKM      float64
	DensityRadiusKM      float64
	MergeDistanceKM      float64
	MaxHotspotAgeHours   int
	CredibilityThreshold float64
	ConfidenceThreshold  float64
	PanicThreshold       float64
}

// FromEnv builds a Config from environment variables, falling back to the
// defaults on missing or unparseable values.
func FromEnv() Config {
	return Config{
		HotspotMinReports:    getInt("HOTSPOT_MIN_REPORTS", 3),
		HotspotRadiusKM:      getFloat("HOTSPOT_RADIUS_KM", 10),
		DensityRadiusKM:      getFloat("DENSITY_RADIUS_KM", 20),
		MergeDistanceKM:      getFloat("MERGE_DISTANCE_KM", 10),
		MaxHotspotAgeHours:   getInt("MAX_HOTSPOT_AGE_HOURS", 24),
		CredibilityThreshold: getFloat("CREDIBILITY_THRESHOLD", 0.6),
		ConfidenceThreshold:  getFloat("CONFIDENCE_THRESHOLD", 0.7),
		PanicThreshold:       getFloat("PANIC_THRESHOLD", 0.8),
	}
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
