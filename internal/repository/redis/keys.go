package redis

import "fmt"

const ns = "busline:v1"

func KeyTripSummary(tripID int64) string {
	return fmt.Sprintf("%s:trip:%d:summary", ns, tripID)
}

func KeyTripAvailability(tripID int64) string {
	return fmt.Sprintf("%s:trip:%d:availability", ns, tripID)
}

func KeyTripSeatMap(tripID int64) string {
	return fmt.Sprintf("%s:trip:%d:seatmap", ns, tripID)
}
