package game

import "time"

const (
	TileDegrees       = 1e-4
	PercentChance     = 0.30
	InteractionRadius = 3.0
	WinValue          = 16
	GeoThrottle       = 1000 * time.Millisecond
	GeoTimeout        = 10 * time.Second

	DefaultViewHalfWidth  = 8
	DefaultViewHalfHeight = 6

	ClassroomLat = 36.997936938057016
	ClassroomLng = -122.05703507501151

	NoPointsStatus = "No points yet..."
	WinStatus      = "You WIN!!!!"
)

// StartPreset is a named real-world location a session can start from.
type StartPreset struct {
	Name string
	Lat  float64
	Lng  float64
}

var StartPresets = []StartPreset{
	{Name: "Classroom", Lat: ClassroomLat, Lng: ClassroomLng},
	{Name: "Equator (Amazon)", Lat: 0.001, Lng: -55},
	{Name: "Prime Meridian (London)", Lat: 51.5, Lng: 0.001},
	{Name: "Tokyo", Lat: 35.689, Lng: 139.691},
}
