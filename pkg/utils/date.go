package utils

import (
	"fmt"
	"time"
)

// JazzCash expects all datetimes as yyyyMMddHHmmss in Pakistan time.
const gatewayDateTimeLayout = "20060102150405"

func pktLocation() (*time.Location, error) {
	loc, err := time.LoadLocation("Asia/Karachi")
	if err != nil {
		return nil, fmt.Errorf("error loading PKT time zone: %v", err)
	}
	return loc, nil
}

func FormatGatewayDateTime(t time.Time) (string, error) {
	loc, err := pktLocation()
	if err != nil {
		return "", err
	}
	return t.In(loc).Format(gatewayDateTimeLayout), nil
}

func GetExpiryDateTime(from time.Time, hours int) (string, error) {
	return FormatGatewayDateTime(from.Add(time.Duration(hours) * time.Hour))
}

func GatewayDateTimeToUnixTimestamp(value string) (int64, error) {
	loc, err := pktLocation()
	if err != nil {
		return 0, err
	}

	t, err := time.ParseInLocation(gatewayDateTimeLayout, value, loc)
	if err != nil {
		return 0, fmt.Errorf("error parsing time: %v", err)
	}

	return t.Unix(), nil
}

func ConvertDateTimeToHumanReadableFormat(datetime int64) (string, error) {
	loc, err := pktLocation()
	if err != nil {
		return "", err
	}

	t := time.Unix(datetime, 0).In(loc)
	outputFormat := "02 January 2006, 15:04 PKT"

	return t.Format(outputFormat), nil
}
