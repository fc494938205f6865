package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ledger-service/pkg/common"
)

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrZeroResults        = errors.New("no time zone found for coordinates")
	ErrLookupFailed       = errors.New("time zone lookup failed")
	ErrUnknownTimezone    = errors.New("unknown time zone")
	ErrInvalidRange       = errors.New("fromDate must be earlier than or equal to toDate")
)

// TimeZoneResolver resolves a coordinate pair to an IANA zone identifier and
// converts naive timestamps between a named zone and UTC.
type TimeZoneResolver interface {
	ResolveTimezone(coordinates string) (string, error)
	ConvertToUTC(t time.Time, zone string) (time.Time, error)
}

// GoogleTimezoneService looks zones up via the Google Time Zone API. The
// credential and endpoint are injected at construction. Every call issues one
// outbound request; repeated coordinates re-query the service.
type GoogleTimezoneService struct {
	BaseURL string
	APIKey  string
}

func NewGoogleTimezoneService(baseURL, apiKey string) *GoogleTimezoneService {
	return &GoogleTimezoneService{BaseURL: baseURL, APIKey: apiKey}
}

func (s *GoogleTimezoneService) ResolveTimezone(coordinates string) (string, error) {
	lat, lng, err := parseCoordinates(coordinates)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?location=%s,%s&timestamp=%d&key=%s",
		s.BaseURL,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lng, 'f', -1, 64),
		time.Now().Unix(),
		s.APIKey,
	)

	resp, err := common.Get(url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	body, ok := resp.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("%w: unexpected response body", ErrLookupFailed)
	}

	status, _ := body["status"].(string)
	switch status {
	case "OK":
		zone, _ := body["timeZoneId"].(string)
		return zone, nil
	case "ZERO_RESULTS":
		return "", fmt.Errorf("%w: %s", ErrZeroResults, coordinates)
	default:
		return "", fmt.Errorf("%w: status %q", ErrLookupFailed, status)
	}
}

// ConvertToUTC reinterprets the wall-clock fields of t as local time in the
// named zone and returns the equivalent UTC instant.
func (s *GoogleTimezoneService) ConvertToUTC(t time.Time, zone string) (time.Time, error) {
	return convertToUTC(t, zone)
}

func convertToUTC(t time.Time, zone string) (time.Time, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownTimezone, zone)
	}
	local := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
	return local.UTC(), nil
}

func parseCoordinates(coordinates string) (float64, float64, error) {
	if strings.TrimSpace(coordinates) == "" {
		return 0, 0, fmt.Errorf("%w: coordinates cannot be empty", ErrInvalidCoordinates)
	}

	parts := strings.Split(coordinates, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: expected two comma-separated values", ErrInvalidCoordinates)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: latitude %q", ErrInvalidCoordinates, parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: longitude %q", ErrInvalidCoordinates, parts[1])
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, fmt.Errorf("%w: out of range", ErrInvalidCoordinates)
	}

	return lat, lng, nil
}
