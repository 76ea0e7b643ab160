package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/NomadCrew/school-dashboard/config"
	"github.com/NomadCrew/school-dashboard/pkg/openmeteo"
	"github.com/NomadCrew/school-dashboard/pkg/qweather"
	"github.com/NomadCrew/school-dashboard/types"
)

// WeatherProvider fetches and normalizes one vendor's forecast.
type WeatherProvider interface {
	Name() string
	Fetch(ctx context.Context) (*types.WeatherSnapshot, error)
}

// NewWeatherProvider builds the provider selected in configuration.
func NewWeatherProvider(cfg *config.Config, loc *time.Location) (WeatherProvider, error) {
	w := cfg.Weather
	point, err := w.Point()
	if err != nil {
		return nil, err
	}
	switch w.Provider {
	case config.WeatherProviderQWeather:
		client := qweather.NewClient(w.APIKey,
			qweather.WithBaseURL(w.BaseURL),
			qweather.WithTimeout(w.Timeout()),
			qweather.WithRateLimit(w.RequestsPerSecond, w.Burst))
		return NewQWeatherProvider(client, point.Latitude(), point.Longitude(), loc), nil
	case config.WeatherProviderOpenMeteo:
		client := openmeteo.NewClient(
			openmeteo.WithBaseURL(w.BaseURL),
			openmeteo.WithTimeout(w.Timeout()),
			openmeteo.WithRateLimit(w.RequestsPerSecond, w.Burst))
		return NewOpenMeteoProvider(client, point.Latitude(), point.Longitude()), nil
	default:
		return nil, fmt.Errorf("unknown weather provider %q", w.Provider)
	}
}

// sortAndCap orders records ascending by time and keeps at most HourlySeriesLength.
func sortAndCap(records []types.ConditionsRecord) []types.ConditionsRecord {
	sort.SliceStable(records, func(i, j int) bool { return records[i].Time < records[j].Time })
	if len(records) > types.HourlySeriesLength {
		records = records[:types.HourlySeriesLength]
	}
	return records
}

// --- QWeather ---

// qweatherTimeLayout is fxTime without seconds, e.g. 2026-10-15T10:00+08:00.
const qweatherTimeLayout = "2006-01-02T15:04Z07:00"

var qweatherIcons = map[string]string{
	"100": types.IconClearDay,
	"101": types.IconPartlyCloudyDay,
	"102": types.IconPartlyCloudyDay,
	"103": types.IconCloudy,
	"104": types.IconCloudy,
	"150": types.IconClearNight,
	"151": types.IconPartlyCloudyNight,
	"152": types.IconPartlyCloudyNight,
	"153": types.IconPartlyCloudyNight,
	"300": types.IconRain,
	"301": types.IconRain,
	"302": types.IconRain,
	"303": types.IconRain,
	"304": types.IconRain,
	"305": types.IconRain,
	"306": types.IconRain,
	"307": types.IconRain,
	"308": types.IconRain,
	"309": types.IconRain,
	"310": types.IconRain,
	"311": types.IconRain,
	"312": types.IconRain,
	"313": types.IconRain,
	"314": types.IconRain,
	"315": types.IconRain,
	"316": types.IconRain,
	"317": types.IconRain,
	"318": types.IconRain,
	"350": types.IconRain,
	"351": types.IconRain,
	"399": types.IconRain,
	"400": types.IconSnow,
	"401": types.IconSnow,
	"402": types.IconSnow,
	"403": types.IconSnow,
	"404": types.IconSnow,
	"405": types.IconSnow,
	"406": types.IconSnow,
	"407": types.IconSnow,
	"408": types.IconSnow,
	"409": types.IconSnow,
	"410": types.IconSnow,
	"456": types.IconSleet,
	"457": types.IconSnow,
	"499": types.IconSnow,
	"500": types.IconFog,
	"501": types.IconFog,
	"502": types.IconFog,
	"503": types.IconFog,
	"504": types.IconFog,
	"507": types.IconFog,
	"508": types.IconFog,
	"509": types.IconFog,
	"510": types.IconFog,
	"511": types.IconFog,
	"512": types.IconFog,
	"513": types.IconFog,
	"514": types.IconFog,
	"515": types.IconFog,
	"900": types.IconWind,
	"901": types.IconWind,
	"999": types.IconClearDay,
}

// MapQWeatherIcon maps a QWeather icon code; unknown codes become clear-day.
func MapQWeatherIcon(code string) string {
	if icon, ok := qweatherIcons[code]; ok {
		return icon
	}
	return types.IconClearDay
}

// parseNumber reads a numeric string, returning 0 when it is missing or malformed.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseQWeatherTime(s string) (time.Time, error) {
	if t, err := time.Parse(qweatherTimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

type QWeatherProvider struct {
	client    qweather.ClientInterface
	latitude  float64
	longitude float64
	loc       *time.Location
}

var _ WeatherProvider = (*QWeatherProvider)(nil)

func NewQWeatherProvider(client qweather.ClientInterface, latitude, longitude float64, loc *time.Location) *QWeatherProvider {
	return &QWeatherProvider{client: client, latitude: latitude, longitude: longitude, loc: loc}
}

func (p *QWeatherProvider) Name() string { return config.WeatherProviderQWeather }

func (p *QWeatherProvider) Fetch(ctx context.Context) (*types.WeatherSnapshot, error) {
	resp, err := p.client.Hourly24h(ctx, p.latitude, p.longitude)
	if err != nil {
		return nil, err
	}
	return NormalizeQWeather(resp, p.latitude, p.longitude, p.loc)
}

// NormalizeQWeather converts a QWeather 24h response into a WeatherSnapshot.
// Entries with an unparseable fxTime are dropped.
func NormalizeQWeather(resp *qweather.HourlyResponse, latitude, longitude float64, loc *time.Location) (*types.WeatherSnapshot, error) {
	records := make([]types.ConditionsRecord, 0, len(resp.Hourly))
	for _, h := range resp.Hourly {
		at, err := parseQWeatherTime(h.FxTime)
		if err != nil {
			continue
		}
		temp := parseNumber(h.Temp)
		windSpeed := parseNumber(h.WindSpeed)
		records = append(records, types.ConditionsRecord{
			Time:              at.Unix(),
			Summary:           h.Text,
			Icon:              MapQWeatherIcon(h.Icon),
			PrecipIntensity:   parseNumber(h.Precip),
			PrecipProbability: parseNumber(h.Pop),
			PrecipType:        "rain",
			Temperature:       temp,
			// The 24h endpoint has no feels-like or gust values.
			ApparentTemperature: temp,
			DewPoint:            parseNumber(h.Dew),
			Humidity:            parseNumber(h.Humidity),
			Pressure:            parseNumber(h.Pressure),
			WindSpeed:           windSpeed,
			WindGust:            windSpeed,
			WindBearing:         int(parseNumber(h.Wind360)),
			CloudCover:          parseNumber(h.Cloud),
			Visibility:          10,
		})
	}

	records = sortAndCap(records)
	if len(records) == 0 {
		return nil, fmt.Errorf("qweather response has no usable hourly entries")
	}

	_, offset := time.Now().In(loc).Zone()
	return &types.WeatherSnapshot{
		Latitude:  latitude,
		Longitude: longitude,
		Timezone:  loc.String(),
		Offset:    float64(offset) / 3600,
		Currently: records[0],
		Hourly: types.HourlyWeather{
			Summary: "24-hour forecast",
			Icon:    records[0].Icon,
			Data:    records,
		},
		Flags: types.WeatherFlags{
			Sources:     []string{"qweather"},
			SourceTimes: map[string]string{"qweather": resp.UpdateTime},
			Units:       "si",
			Version:     "1.0",
		},
	}, nil
}

// --- Open-Meteo ---

type wmoCondition struct {
	summary string
	day     string
	night   string
}

// wmoCodes maps WMO 4677 weather codes as used by Open-Meteo.
var wmoCodes = map[int]wmoCondition{
	0:  {"Clear sky", types.IconClearDay, types.IconClearNight},
	1:  {"Mainly clear", types.IconPartlyCloudyDay, types.IconPartlyCloudyNight},
	2:  {"Partly cloudy", types.IconPartlyCloudyDay, types.IconPartlyCloudyNight},
	3:  {"Overcast", types.IconCloudy, types.IconCloudy},
	45: {"Fog", types.IconFog, types.IconFog},
	48: {"Depositing rime fog", types.IconFog, types.IconFog},
	51: {"Light drizzle", types.IconRain, types.IconRain},
	53: {"Drizzle", types.IconRain, types.IconRain},
	55: {"Dense drizzle", types.IconRain, types.IconRain},
	56: {"Freezing drizzle", types.IconSleet, types.IconSleet},
	57: {"Dense freezing drizzle", types.IconSleet, types.IconSleet},
	61: {"Light rain", types.IconRain, types.IconRain},
	63: {"Rain", types.IconRain, types.IconRain},
	65: {"Heavy rain", types.IconRain, types.IconRain},
	66: {"Freezing rain", types.IconSleet, types.IconSleet},
	67: {"Heavy freezing rain", types.IconSleet, types.IconSleet},
	71: {"Light snow", types.IconSnow, types.IconSnow},
	73: {"Snow", types.IconSnow, types.IconSnow},
	75: {"Heavy snow", types.IconSnow, types.IconSnow},
	77: {"Snow grains", types.IconSnow, types.IconSnow},
	80: {"Rain showers", types.IconRain, types.IconRain},
	81: {"Rain showers", types.IconRain, types.IconRain},
	82: {"Violent rain showers", types.IconRain, types.IconRain},
	85: {"Snow showers", types.IconSnow, types.IconSnow},
	86: {"Heavy snow showers", types.IconSnow, types.IconSnow},
	95: {"Thunderstorm", types.IconRain, types.IconRain},
	96: {"Thunderstorm with hail", types.IconRain, types.IconRain},
	99: {"Thunderstorm with heavy hail", types.IconRain, types.IconRain},
}

// MapWMOCode returns icon and summary for a WMO code; unknown codes become clear-day.
func MapWMOCode(code int, isDay bool) (icon, summary string) {
	c, ok := wmoCodes[code]
	if !ok {
		return types.IconClearDay, "Unknown"
	}
	if isDay {
		return c.day, c.summary
	}
	return c.night, c.summary
}

type OpenMeteoProvider struct {
	client    openmeteo.ClientInterface
	latitude  float64
	longitude float64
	now       func() time.Time
}

var _ WeatherProvider = (*OpenMeteoProvider)(nil)

func NewOpenMeteoProvider(client openmeteo.ClientInterface, latitude, longitude float64) *OpenMeteoProvider {
	return &OpenMeteoProvider{client: client, latitude: latitude, longitude: longitude, now: time.Now}
}

func (p *OpenMeteoProvider) Name() string { return config.WeatherProviderOpenMeteo }

func (p *OpenMeteoProvider) Fetch(ctx context.Context) (*types.WeatherSnapshot, error) {
	resp, err := p.client.Hourly(ctx, p.latitude, p.longitude, types.HourlySeriesLength)
	if err != nil {
		return nil, err
	}
	return NormalizeOpenMeteo(resp, p.now())
}

func floatAt(values []*float64, i int) float64 {
	if i < len(values) && values[i] != nil {
		return *values[i]
	}
	return 0
}

func intAt(values []*int, i int) (int, bool) {
	if i < len(values) && values[i] != nil {
		return *values[i], true
	}
	return 0, false
}

// NormalizeOpenMeteo converts an Open-Meteo hourly response into a WeatherSnapshot.
// Missing or null values become 0; fetchedAt stands in for the provider update time.
func NormalizeOpenMeteo(resp *openmeteo.ForecastResponse, fetchedAt time.Time) (*types.WeatherSnapshot, error) {
	h := resp.Hourly
	records := make([]types.ConditionsRecord, 0, len(h.Time))
	for i, ts := range h.Time {
		if ts <= 0 {
			continue
		}
		code, hasCode := intAt(h.WeatherCode, i)
		isDay, hasDay := intAt(h.IsDay, i)
		icon, summary := types.IconClearDay, "Unknown"
		if hasCode {
			icon, summary = MapWMOCode(code, !hasDay || isDay == 1)
		}
		precipType := "rain"
		if icon == types.IconSnow {
			precipType = "snow"
		}
		records = append(records, types.ConditionsRecord{
			Time:                ts,
			Summary:             summary,
			Icon:                icon,
			PrecipIntensity:     floatAt(h.Precipitation, i),
			PrecipProbability:   floatAt(h.PrecipitationProbability, i),
			PrecipType:          precipType,
			Temperature:         floatAt(h.Temperature2m, i),
			ApparentTemperature: floatAt(h.ApparentTemperature, i),
			DewPoint:            floatAt(h.DewPoint2m, i),
			Humidity:            floatAt(h.RelativeHumidity2m, i),
			Pressure:            floatAt(h.PressureMSL, i),
			WindSpeed:           floatAt(h.WindSpeed10m, i),
			WindGust:            floatAt(h.WindGusts10m, i),
			WindBearing:         int(floatAt(h.WindDirection10m, i)),
			CloudCover:          floatAt(h.CloudCover, i),
			UVIndex:             floatAt(h.UVIndex, i),
			Visibility:          floatAt(h.Visibility, i) / 1000, // metres to km
		})
	}

	records = sortAndCap(records)
	if len(records) == 0 {
		return nil, fmt.Errorf("open-meteo response has no hourly entries")
	}

	return &types.WeatherSnapshot{
		Latitude:  resp.Latitude,
		Longitude: resp.Longitude,
		Timezone:  resp.Timezone,
		Offset:    float64(resp.UTCOffsetSeconds) / 3600,
		Elevation: resp.Elevation,
		Currently: records[0],
		Hourly: types.HourlyWeather{
			Summary: "24-hour forecast",
			Icon:    records[0].Icon,
			Data:    records,
		},
		Flags: types.WeatherFlags{
			Sources:     []string{"openmeteo"},
			SourceTimes: map[string]string{"openmeteo": fetchedAt.UTC().Format(time.RFC3339)},
			Units:       "si",
			Version:     "1.0",
		},
	}, nil
}
