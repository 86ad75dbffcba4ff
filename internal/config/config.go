// Package config handles showroom configuration loading and management.
package config

import "time"

// Config holds all showroom settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Scene      SceneConfig      `yaml:"scene"`
	Camera     CameraConfig     `yaml:"camera"`
	Rain       RainConfig       `yaml:"rain"`
	Label      LabelConfig      `yaml:"label"`
	Assets     AssetsConfig     `yaml:"assets"`
	Cars       []CarConfig      `yaml:"cars"`
	Presets    PresetsConfig    `yaml:"presets"`
	Audio      AudioConfig      `yaml:"audio"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// SceneConfig holds startup scene content.
type SceneConfig struct {
	StartupEnvironment string `yaml:"startup_environment"` // image loaded before any mode switch
	Floor              string `yaml:"floor"`               // floor model manifest
	DefaultCar         string `yaml:"default_car"`
	StartRainy         bool   `yaml:"start_rainy"`
}

// HeightsConfig holds the camera height per preset view.
type HeightsConfig struct {
	Front float32 `yaml:"front"`
	Top   float32 `yaml:"top"`
	Rear  float32 `yaml:"rear"`
}

// CameraConfig holds projection, orbit and preset transition settings.
type CameraConfig struct {
	FOV         float32       `yaml:"fov"` // degrees
	Near        float32       `yaml:"near"`
	Far         float32       `yaml:"far"`
	MinDistance float32       `yaml:"min_distance"`
	MaxDistance float32       `yaml:"max_distance"`
	MaxPolar    float32       `yaml:"max_polar"` // radians from +Y
	RotateSpeed float32       `yaml:"rotate_speed"`
	ZoomSpeed   float32       `yaml:"zoom_speed"`
	Rate        float32       `yaml:"rate"`    // fraction of remaining distance per tick
	Epsilon     float32       `yaml:"epsilon"` // snap distance
	SettleDelay time.Duration `yaml:"settle_delay"`
	Heights     HeightsConfig `yaml:"heights"`
}

// RainConfig holds the rain particle volume.
type RainConfig struct {
	Count      int     `yaml:"count"`
	Width      float32 `yaml:"width"`
	Height     float32 `yaml:"height"`
	Depth      float32 `yaml:"depth"`
	Length     float32 `yaml:"length"`
	MinFall    float32 `yaml:"min_fall"`
	FallJitter float32 `yaml:"fall_jitter"`
	// ReferenceRate makes the fall frame-rate independent when > 0: the
	// per-tick fall is scaled by elapsed seconds times this rate.
	ReferenceRate float32 `yaml:"reference_rate"`
	Seed          int64   `yaml:"seed"`
}

// LabelConfig holds label animation settings.
type LabelConfig struct {
	Duration time.Duration `yaml:"duration"`
}

// AssetsConfig holds asset loader settings.
type AssetsConfig struct {
	Root      string `yaml:"root"`
	Workers   int    `yaml:"workers"`
	QueueSize int    `yaml:"queue_size"`
}

// CarConfig describes one selectable car.
type CarConfig struct {
	Name  string `yaml:"name"`
	Model string `yaml:"model"`
	Label string `yaml:"label"`
}

// PresetsConfig holds optional per-mode overrides of the built-in presets.
type PresetsConfig struct {
	Sunny PresetOverride `yaml:"sunny,omitempty"`
	Rainy PresetOverride `yaml:"rainy,omitempty"`
}

// PresetOverride overrides individual preset fields. Nil fields keep the
// built-in value. Colors are "#rrggbb".
type PresetOverride struct {
	Directional *float32 `yaml:"directional,omitempty"`
	Ambient     *float32 `yaml:"ambient,omitempty"`
	EnvMap      *float32 `yaml:"env_map,omitempty"`
	Shadow      *float32 `yaml:"shadow,omitempty"`

	Background *string `yaml:"background,omitempty"`
	FloorTint  *string `yaml:"floor_tint,omitempty"`

	FloorRoughness          *float32 `yaml:"floor_roughness,omitempty"`
	FloorMetalness          *float32 `yaml:"floor_metalness,omitempty"`
	FloorEnvMap             *float32 `yaml:"floor_env_map,omitempty"`
	FloorSpecular           *float32 `yaml:"floor_specular,omitempty"`
	FloorClearcoat          *float32 `yaml:"floor_clearcoat,omitempty"`
	FloorClearcoatRoughness *float32 `yaml:"floor_clearcoat_roughness,omitempty"`

	FogColor   *string  `yaml:"fog_color,omitempty"`
	FogDensity *float32 `yaml:"fog_density,omitempty"` // 0 disables fog

	BloomStrength  *float32 `yaml:"bloom_strength,omitempty"`
	BloomRadius    *float32 `yaml:"bloom_radius,omitempty"`
	BloomThreshold *float32 `yaml:"bloom_threshold,omitempty"`
	BloomEnabled   *bool    `yaml:"bloom_enabled,omitempty"`

	Transition       *time.Duration `yaml:"transition,omitempty"`
	BloomTransition  *time.Duration `yaml:"bloom_transition,omitempty"`
	EnvironmentImage *string        `yaml:"environment_image,omitempty"`
}

// AudioConfig holds the rain ambience settings.
type AudioConfig struct {
	RainLoop     string  `yaml:"rain_loop"`
	MasterVolume float32 `yaml:"master_volume"`
	Muted        bool    `yaml:"muted"`
}

// ScreenshotConfig holds screenshot capture settings.
type ScreenshotConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Showroom",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Scene: SceneConfig{
			StartupEnvironment: "env/blocky_photo_studio_1k.png",
			Floor:              "models/SM_Floor.yaml",
			DefaultCar:         "macan2017",
		},
		Camera: CameraConfig{
			FOV:         35,
			Near:        0.01,
			Far:         2000,
			MinDistance: 1,
			MaxDistance: 20,
			MaxPolar:    1.4835,
			RotateSpeed: 0.005,
			ZoomSpeed:   0.5,
			Rate:        0.05,
			Epsilon:     0.01,
			SettleDelay: time.Second,
			Heights: HeightsConfig{
				Front: 1.5,
				Top:   10,
				Rear:  1.5,
			},
		},
		Rain: RainConfig{
			Count:      3000,
			Width:      40,
			Height:     50,
			Depth:      40,
			Length:     2,
			MinFall:    1.0,
			FallJitter: 0.5,
		},
		Label: LabelConfig{
			Duration: 260 * time.Millisecond,
		},
		Assets: AssetsConfig{
			Root:      "assets",
			Workers:   4,
			QueueSize: 16,
		},
		Cars: []CarConfig{
			{Name: "macan2017", Model: "models/macan2017.yaml", Label: "models/SM_MacanSign.yaml"},
			{Name: "911", Model: "models/modularCar/SM_911_Targa_A.yaml", Label: "models/SM_911Sign.yaml"},
		},
		Audio: AudioConfig{
			RainLoop:     "audio/rain.wav",
			MasterVolume: 0.6,
		},
		Screenshot: ScreenshotConfig{
			Dir: "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Car returns the car config with the given name.
func (c *Config) Car(name string) (CarConfig, bool) {
	for _, car := range c.Cars {
		if car.Name == name {
			return car, true
		}
	}
	return CarConfig{}, false
}
