package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL string
	HTTPAddr    string
	OpsAddr     string
	LogLevel    string
	Env         string // dev|prod
	SentryDSN   string
	Location    *time.Location
	JWTSecret   string
	GeocoderURL string // пусто — резолвим координаты в строку без внешнего сервиса
	MirrorURL   string // пусто — репликация в зеркало выключена

	// Авто-закрытие посещаемости: триггер — когда запускаем sweep,
	// cutoff — какое время выхода пишем в запись. По наследству от исходной
	// системы это два разных времени; оба настраиваются явно.
	AutoPunchOutTrigger DayTime
	AutoPunchOutCutoff  DayTime
}

// DayTime — время внутри суток (часы:минуты локального времени).
type DayTime struct {
	Hour   int
	Minute int
}

func (d DayTime) String() string { return fmt.Sprintf("%02d:%02d", d.Hour, d.Minute) }

// At — наступление этого времени в день t (в локации t).
func (d DayTime) At(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), d.Hour, d.Minute, 0, 0, t.Location())
}

func Load() (*Config, error) {
	tz := getenv("TZ", "Asia/Kolkata")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	trigger, err := ParseDayTime(getenv("AUTO_PUNCHOUT_TRIGGER", "09:45"))
	if err != nil {
		return nil, fmt.Errorf("AUTO_PUNCHOUT_TRIGGER: %w", err)
	}
	cutoff, err := ParseDayTime(getenv("AUTO_PUNCHOUT_TIME", "22:30"))
	if err != nil {
		return nil, fmt.Errorf("AUTO_PUNCHOUT_TIME: %w", err)
	}

	cfg := &Config{
		DatabaseURL: mustEnv("DATABASE_URL"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		OpsAddr:     getenv("OPS_ADDR", ":8081"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		Env:         getenv("ENV", "dev"),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Location:    loc,
		JWTSecret:   mustEnv("JWT_SECRET"),
		GeocoderURL: os.Getenv("GEOCODER_URL"),
		MirrorURL:   os.Getenv("MIRROR_URL"),

		AutoPunchOutTrigger: trigger,
		AutoPunchOutCutoff:  cutoff,
	}
	return cfg, nil
}

// ParseDayTime — "HH:MM" → DayTime.
func ParseDayTime(s string) (DayTime, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return DayTime{}, fmt.Errorf("ожидали HH:MM, получили %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return DayTime{}, fmt.Errorf("плохой час в %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return DayTime{}, fmt.Errorf("плохая минута в %q", s)
	}
	return DayTime{Hour: h, Minute: m}, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
