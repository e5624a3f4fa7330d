package redisx

const ns = "busline:v1"

func ChannelTripsChanged() string {
	return ns + ":trips:changed"
}
