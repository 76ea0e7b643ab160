package types

// Weather icon names. Renderers map anything else to the unknown glyph.
const (
	IconClearDay          = "clear-day"
	IconClearNight        = "clear-night"
	IconRain              = "rain"
	IconSnow              = "snow"
	IconSleet             = "sleet"
	IconWind              = "wind"
	IconFog               = "fog"
	IconCloudy            = "cloudy"
	IconPartlyCloudyDay   = "partly-cloudy-day"
	IconPartlyCloudyNight = "partly-cloudy-night"
)

// HourlySeriesLength caps the normalized forecast series.
const HourlySeriesLength = 24

// ConditionsRecord describes the weather at one instant.
type ConditionsRecord struct {
	Time                int64   `json:"time"` // unix seconds
	Summary             string  `json:"summary"`
	Icon                string  `json:"icon"`
	PrecipIntensity     float64 `json:"precipIntensity"`
	PrecipProbability   float64 `json:"precipProbability"`
	PrecipType          string  `json:"precipType"`
	Temperature         float64 `json:"temperature"`
	ApparentTemperature float64 `json:"apparentTemperature"`
	DewPoint            float64 `json:"dewPoint"`
	Humidity            float64 `json:"humidity"`
	Pressure            float64 `json:"pressure"`
	WindSpeed           float64 `json:"windSpeed"`
	WindGust            float64 `json:"windGust"`
	WindBearing         int     `json:"windBearing"`
	CloudCover          float64 `json:"cloudCover"`
	UVIndex             float64 `json:"uvIndex"`
	Visibility          float64 `json:"visibility"`
}

// HourlyWeather is the forecast series, ascending by time; index 0 is the current hour.
type HourlyWeather struct {
	Summary string             `json:"summary"`
	Icon    string             `json:"icon"`
	Data    []ConditionsRecord `json:"data"`
}

// WeatherFlags records where a snapshot came from.
type WeatherFlags struct {
	Sources     []string          `json:"sources"`
	SourceTimes map[string]string `json:"sourceTimes"`
	Units       string            `json:"units"`
	Version     string            `json:"version"`
}

// WeatherSnapshot is the normalized weather payload cached per hour bucket.
type WeatherSnapshot struct {
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	Timezone  string           `json:"timezone"`
	Offset    float64          `json:"offset"`
	Elevation float64          `json:"elevation"`
	Currently ConditionsRecord `json:"currently"`
	Hourly    HourlyWeather    `json:"hourly"`
	Flags     WeatherFlags     `json:"flags"`
}
