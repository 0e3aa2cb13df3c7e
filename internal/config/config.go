// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Viewport ViewportConfig `yaml:"viewport"`
	Camera   CameraConfig   `yaml:"camera"`
	Gizmo    GizmoConfig    `yaml:"gizmo"`
	Rotation RotationConfig `yaml:"rotation"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ViewportConfig holds the size of the rendering surface in pixels.
// Picking unprojects pointer positions against these dimensions.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// CameraConfig holds navigation settings.
type CameraConfig struct {
	FieldOfView      float64 `yaml:"field_of_view"`      // Horizontal, degrees
	NearPlane        float64 `yaml:"near_plane"`         // Near plane distance
	Sensitivity      float64 `yaml:"sensitivity"`        // Radians (orbit) or units (pan) per pixel
	MinDollyDistance float64 `yaml:"min_dolly_distance"` // Closest the camera may get to the origin
}

// GizmoConfig holds axis gizmo settings.
type GizmoConfig struct {
	ViewportFraction float64 `yaml:"viewport_fraction"` // Share of the near-plane width an axis spans
}

// RotationConfig holds auto-rotation settings.
type RotationConfig struct {
	Interval    time.Duration `yaml:"interval"`
	StepDegrees float64       `yaml:"step_degrees"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewport: ViewportConfig{
			Width:  1280,
			Height: 720,
		},
		Camera: CameraConfig{
			FieldOfView:      60,
			NearPlane:        0.125,
			Sensitivity:      0.005,
			MinDollyDistance: 0.5,
		},
		Gizmo: GizmoConfig{
			ViewportFraction: 0.20,
		},
		Rotation: RotationConfig{
			Interval:    30 * time.Millisecond,
			StepDegrees: 10,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
