package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Settings are the company-facing options kept in the settings file.
type Settings struct {
	CompanyName  string         `toml:"company_name" json:"company_name"`
	Timezone     string         `toml:"timezone" json:"timezone"`
	WorkingHours WorkingHours   `toml:"working_hours" json:"working_hours"`
	Export       ExportSettings `toml:"export" json:"export"`
}

// WorkingHours are clock times in HH:MM.
type WorkingHours struct {
	Start            string `toml:"start" json:"start"`
	End              string `toml:"end" json:"end"`
	LateGraceMinutes int    `toml:"late_grace_minutes" json:"late_grace_minutes"`
}

type ExportSettings struct {
	MaxRows       int `toml:"max_rows" json:"max_rows"`
	MaxCellLength int `toml:"max_cell_length" json:"max_cell_length"`
}

const clockLayout = "15:04"

// DefaultSettings mirrors the values used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		CompanyName: "Staff Attendance",
		Timezone:    "Local",
		WorkingHours: WorkingHours{
			Start: "09:00",
			End:   "17:00",
		},
		Export: ExportSettings{
			MaxRows:       100,
			MaxCellLength: 30,
		},
	}
}

// LoadSettings returns defaults for an empty path, otherwise decodes the file
// over the defaults so absent keys keep their default value.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to open settings file: %w", err)
	}
	defer f.Close()

	s, err := ReadSettings(f)
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings from %s: %w", path, err)
	}
	return s, nil
}

// ReadSettings decodes settings from r over the defaults.
func ReadSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// WriteSettings encodes s as TOML.
func WriteSettings(w io.Writer, s Settings) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return nil
}

func (s Settings) Validate() error {
	if _, err := s.Location(); err != nil {
		return err
	}
	start, err := time.Parse(clockLayout, s.WorkingHours.Start)
	if err != nil {
		return fmt.Errorf("invalid working_hours.start %q: expected HH:MM", s.WorkingHours.Start)
	}
	end, err := time.Parse(clockLayout, s.WorkingHours.End)
	if err != nil {
		return fmt.Errorf("invalid working_hours.end %q: expected HH:MM", s.WorkingHours.End)
	}
	if !end.After(start) {
		return fmt.Errorf("working_hours.end must be after working_hours.start")
	}
	if s.WorkingHours.LateGraceMinutes < 0 {
		return fmt.Errorf("working_hours.late_grace_minutes must not be negative")
	}
	if s.Export.MaxRows <= 0 {
		return fmt.Errorf("export.max_rows must be positive")
	}
	if s.Export.MaxCellLength <= 0 {
		return fmt.Errorf("export.max_cell_length must be positive")
	}
	return nil
}

// Location resolves the configured timezone. Empty and "Local" mean the
// process location.
func (s Settings) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// LateAfterSeconds is the time of day, in seconds since midnight, after
// which a check-in counts as late.
func (s Settings) LateAfterSeconds() int {
	start, err := time.Parse(clockLayout, s.WorkingHours.Start)
	if err != nil {
		return 9 * 3600
	}
	return start.Hour()*3600 + start.Minute()*60 + s.WorkingHours.LateGraceMinutes*60
}
