// Package config handles harness configuration loading and management.
package config

// Config holds all harness settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Lighting LightingConfig `yaml:"lighting"`
	Scene    SceneConfig    `yaml:"scene"`
	Culling  CullingConfig  `yaml:"culling"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title         string `yaml:"title"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Fullscreen    bool   `yaml:"fullscreen"`
	RelativeMouse bool   `yaml:"relative_mouse"`
	FPSLimit      int    `yaml:"fps_limit"`
}

// CameraConfig holds the initial camera state and input tuning.
type CameraConfig struct {
	Fov float32 `yaml:"fov"`
	// Aspect of zero follows the window.
	Aspect     float32    `yaml:"aspect"`
	ZNear      float32    `yaml:"z_near"`
	ZFar       float32    `yaml:"z_far"`
	Speed      float32    `yaml:"speed"`
	Height     float32    `yaml:"height"`
	Position   [3]float32 `yaml:"position"`
	Fly        bool       `yaml:"fly"`
	Handedness string     `yaml:"handedness"` // left | right
	Rotation   string     `yaml:"rotation"`   // matrix | quaternion
	Mode       string     `yaml:"mode"`       // free | orbit

	Orbit OrbitConfig `yaml:"orbit"`

	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
	Smoothing        bool    `yaml:"smoothing"`
}

// OrbitConfig holds orbit-mode settings. Limits are in degrees, zero is
// unlimited.
type OrbitConfig struct {
	Target     [3]float32 `yaml:"target"`
	YawLimit   float32    `yaml:"yaw_limit"`
	PitchLimit float32    `yaml:"pitch_limit"`
}

// LightingConfig holds the generated light field.
type LightingConfig struct {
	Count       int        `yaml:"count"`
	RadiusRange [2]float32 `yaml:"radius_range"`
	AreaMin     [3]float32 `yaml:"area_min"`
	AreaMax     [3]float32 `yaml:"area_max"`
	Seed        int64      `yaml:"seed"`
	Animate     bool       `yaml:"animate"`

	// SunDirection points from the scene toward the sun. Zero disables
	// shadow-caster culling.
	SunDirection  [3]float32 `yaml:"sun_direction"`
	ShadowExtrude float32    `yaml:"shadow_extrude"`
}

// SceneConfig holds the scene to cull.
type SceneConfig struct {
	Path      string `yaml:"path"`
	CacheSize int    `yaml:"cache_size"`
}

// CullingConfig holds batch culling settings.
type CullingConfig struct {
	// Workers of zero uses GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Format  string `yaml:"format"` // console | json
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "lidshade",
			Width:  1280,
			Height: 720,
		},
		Camera: CameraConfig{
			Fov:              45,
			ZNear:            0.16,
			ZFar:             2000,
			Speed:            8,
			Height:           3.5,
			Position:         [3]float32{20, -0.7, -10},
			Handedness:       "left",
			Rotation:         "quaternion",
			Mode:             "free",
			MouseSensitivity: 0.1,
			Smoothing:        true,
		},
		Lighting: LightingConfig{
			Count:       128,
			RadiusRange: [2]float32{4, 12},
			AreaMin:     [3]float32{-200, 0, -200},
			AreaMax:     [3]float32{200, 30, 200},
			Animate:     true,

			SunDirection:  [3]float32{0.5, 1, 0.3},
			ShadowExtrude: 100,
		},
		Scene: SceneConfig{
			CacheSize: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
