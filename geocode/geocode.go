package geocode

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"googlemaps.github.io/maps"
)

// mapsClient is a singleton maps client instance.
var (
	mapsClient *maps.Client
	clientOnce sync.Once
)

// InitMapsClient initializes and returns a singleton Google Maps client.
func InitMapsClient() (*maps.Client, error) {
	var err error
	clientOnce.Do(func() {
		apiKey := os.Getenv("MAPS_CREDENTIALS")
		if apiKey == "" {
			err = fmt.Errorf("MAPS_CREDENTIALS environment variable not set")
			return
		}
		mapsClient, err = maps.NewClient(maps.WithAPIKey(apiKey))
		if err != nil {
			log.Fatalf("Failed to create maps client: %v", err)
		}
	})
	return mapsClient, err
}

// GeocodeAddress forward-geocodes a place name or address string.
func GeocodeAddress(address string) ([]maps.GeocodingResult, error) {
	client, err := InitMapsClient()
	if err != nil {
		return nil, err
	}

	req := &maps.GeocodingRequest{
		Address: address,
	}

	results, err := client.Geocode(context.Background(), req)
	if err != nil {
		return nil, err
	}

	return results, nil
}

// GeocodePlace resolves a place mention to coordinates and a formatted
// address, taking the first geocoding hit. Returns ok=false when the place
// cannot be resolved; the caller decides whether the report is still usable.
func GeocodePlace(place string) (lat, lon float64, formatted string, ok bool) {
	results, err := GeocodeAddress(place)
	if err != nil {
		log.Printf("Failed to geocode %q: %v", place, err)
		return 0, 0, "", false
	}
	if len(results) == 0 {
		log.Printf("No geocode results for %q", place)
		return 0, 0, "", false
	}

	loc := results[0].Geometry.Location
	return loc.Lat, loc.Lng, results[0].FormattedAddress, true
}
