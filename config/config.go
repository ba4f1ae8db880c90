// Package config loads drive.toml and DRIVE_* environment overrides through viper
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lixenwraith/arcade-drive/parameter"
)

// EnvPrefix scopes environment overrides, e.g. DRIVE_VEHICLE_MASS
const EnvPrefix = "DRIVE"

// DefaultFileName is searched in the working directory when no path is given
const DefaultFileName = "drive"

type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type SimConfig struct {
	Timestep     float64 `mapstructure:"timestep"`
	MaxSubSteps  int     `mapstructure:"max_substeps"`
	MaxSpeed     float64 `mapstructure:"max_speed"`
	SpeedDamping float64 `mapstructure:"speed_damping"`
	Gravity      float64 `mapstructure:"gravity"`
}

type VehicleConfig struct {
	Mass           float64   `mapstructure:"mass"`
	AngularDamping float64   `mapstructure:"angular_damping"`
	HalfExtents    []float64 `mapstructure:"half_extents"`
	CenterOffset   []float64 `mapstructure:"center_offset"`
	Spawn          []float64 `mapstructure:"spawn"`
	Color          uint32    `mapstructure:"color"`
	// ModelPath is an OBJ file; empty selects the built-in truck
	ModelPath  string    `mapstructure:"model_path"`
	ModelScale []float64 `mapstructure:"model_scale"`
}

type ResetConfig struct {
	InPlace bool      `mapstructure:"in_place"`
	Spawn   []float64 `mapstructure:"spawn"`
	Yaw     float64   `mapstructure:"yaw"`
	Height  float64   `mapstructure:"height"`
}

type WheelConfig struct {
	Radius               float64 `mapstructure:"radius"`
	SuspensionStiffness  float64 `mapstructure:"suspension_stiffness"`
	SuspensionRestLength float64 `mapstructure:"suspension_rest_length"`
	MaxSuspensionTravel  float64 `mapstructure:"max_suspension_travel"`
	MaxSuspensionForce   float64 `mapstructure:"max_suspension_force"`
	FrictionSlip         float64 `mapstructure:"friction_slip"`
	DampingCompression   float64 `mapstructure:"damping_compression"`
	DampingRelaxation    float64 `mapstructure:"damping_relaxation"`
	RollInfluence        float64 `mapstructure:"roll_influence"`
	CustomSlidingSpeed   float64 `mapstructure:"custom_sliding_speed"`
	UseCustomSliding     bool    `mapstructure:"use_custom_sliding"`
}

type InputConfig struct {
	MaxForce    float64       `mapstructure:"max_force"`
	MaxSteer    float64       `mapstructure:"max_steer"`
	MaxBrake    float64       `mapstructure:"max_brake"`
	IdleDrag    float64       `mapstructure:"idle_drag"`
	Hold        time.Duration `mapstructure:"hold"`
	InitialHold time.Duration `mapstructure:"initial_hold"`
	// Bindings maps key names to action names on top of the defaults
	Bindings map[string]string `mapstructure:"bindings"`
}

type CameraConfig struct {
	Preset string `mapstructure:"preset"`
	// Zero values keep the preset's tuning
	FollowRate float64   `mapstructure:"follow_rate"`
	LookRate   float64   `mapstructure:"look_rate"`
	LookAhead  float64   `mapstructure:"look_ahead"`
	Offset     []float64 `mapstructure:"offset"`
}

type AudioConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	EngineVolume float64 `mapstructure:"engine_volume"`
	BrakeVolume  float64 `mapstructure:"brake_volume"`
	// Empty paths select the synthesized loops
	EnginePath string `mapstructure:"engine_path"`
	BrakePath  string `mapstructure:"brake_path"`
}

type TextConfig struct {
	Text     string    `mapstructure:"text"`
	Position []float64 `mapstructure:"position"`
}

type StaticObjectConfig struct {
	Name string `mapstructure:"name"`
	// Path is an OBJ file; empty selects the built-in gate
	Path     string    `mapstructure:"path"`
	Position []float64 `mapstructure:"position"`
	Scale    []float64 `mapstructure:"scale"`
	Yaw      float64   `mapstructure:"yaw"`
}

type TriggerConfig struct {
	Name     string    `mapstructure:"name"`
	Label    string    `mapstructure:"label"`
	Position []float64 `mapstructure:"position"`
	Radius   float64   `mapstructure:"radius"`
	Reach    float64   `mapstructure:"reach"`
}

type SceneConfig struct {
	Blocks        int                  `mapstructure:"blocks"`
	Ball          bool                 `mapstructure:"ball"`
	Sign          TextConfig           `mapstructure:"sign"`
	Names         []TextConfig         `mapstructure:"names"`
	StaticObjects []StaticObjectConfig `mapstructure:"static_objects"`
	Triggers      []TriggerConfig      `mapstructure:"triggers"`
}

type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Every   int    `mapstructure:"every"`
}

// Config is the complete runtime configuration
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Sim       SimConfig       `mapstructure:"sim"`
	Vehicle   VehicleConfig   `mapstructure:"vehicle"`
	Reset     ResetConfig     `mapstructure:"reset"`
	Wheel     WheelConfig     `mapstructure:"wheel"`
	Input     InputConfig     `mapstructure:"input"`
	Camera    CameraConfig    `mapstructure:"camera"`
	Audio     AudioConfig     `mapstructure:"audio"`
	Scene     SceneConfig     `mapstructure:"scene"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// Default returns the demo's configuration
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", File: "logs/drive.log"},
		Sim: SimConfig{
			Timestep:     parameter.SimTimestep,
			MaxSubSteps:  parameter.SimMaxSubSteps,
			MaxSpeed:     parameter.MaxSpeed,
			SpeedDamping: parameter.SpeedDamping,
			Gravity:      parameter.Gravity,
		},
		Vehicle: VehicleConfig{
			Mass:           parameter.ChassisMass,
			AngularDamping: parameter.ChassisAngularDamping,
			HalfExtents:    []float64{parameter.ChassisHalfWidth, parameter.ChassisHalfHeight, parameter.ChassisHalfLength},
			CenterOffset:   []float64{0, parameter.ChassisCenterOffsetY, 0},
			Spawn:          []float64{0, parameter.ChassisSpawnY, 0},
			Color:          parameter.ChassisColor,
			ModelScale:     []float64{parameter.ModelScaleX, parameter.ModelScaleY, parameter.ModelScaleZ},
		},
		Reset: ResetConfig{
			InPlace: true,
			Spawn:   []float64{0, 0, 0},
			Yaw:     parameter.ResetYaw,
			Height:  parameter.ResetHeight,
		},
		Wheel: WheelConfig{
			Radius:               parameter.WheelRadius,
			SuspensionStiffness:  parameter.WheelSuspensionStiffness,
			SuspensionRestLength: parameter.WheelSuspensionRestLength,
			MaxSuspensionTravel:  parameter.WheelMaxSuspensionTravel,
			MaxSuspensionForce:   parameter.WheelMaxSuspensionForce,
			FrictionSlip:         parameter.WheelFrictionSlip,
			DampingCompression:   parameter.WheelDampingCompression,
			DampingRelaxation:    parameter.WheelDampingRelaxation,
			RollInfluence:        parameter.WheelRollInfluence,
			CustomSlidingSpeed:   parameter.WheelCustomSlidingSpeed,
			UseCustomSliding:     true,
		},
		Input: InputConfig{
			MaxForce:    parameter.MaxEngineForce,
			MaxSteer:    parameter.MaxSteer,
			MaxBrake:    parameter.MaxBrakeForce,
			IdleDrag:    parameter.IdleDrag,
			Hold:        parameter.KeyHold,
			InitialHold: parameter.KeyInitialHold,
			Bindings:    map[string]string{},
		},
		Camera: CameraConfig{Preset: "cinematic"},
		Audio: AudioConfig{
			Enabled:      true,
			EngineVolume: parameter.EngineVolume,
			BrakeVolume:  parameter.BrakeVolume,
		},
		Scene: SceneConfig{
			Blocks: parameter.BlockCount,
			Ball:   true,
			Sign: TextConfig{
				Text:     parameter.SignText,
				Position: []float64{parameter.SignX, parameter.SignY, parameter.SignZ},
			},
			Names: []TextConfig{
				{Text: "TATYAAA", Position: []float64{-5, 0, 15}},
				{Text: "POOKIE", Position: []float64{-5, 5, 15}},
			},
			StaticObjects: []StaticObjectConfig{
				{Name: "gate", Position: []float64{parameter.GateX, 0, parameter.GateZ}, Scale: []float64{1, 1, 1}},
			},
			Triggers: []TriggerConfig{
				{
					Name:     "beacon",
					Label:    "click me",
					Position: []float64{parameter.TriggerX, parameter.TriggerY, parameter.TriggerZ},
					Radius:   parameter.TriggerRadius,
					Reach:    parameter.TriggerReachRadius,
				},
			},
		},
		Telemetry: TelemetryConfig{
			Addr:  parameter.TelemetryAddr,
			Every: parameter.TelemetryEvery,
		},
	}
}

// setDefaults registers every key so env overrides and Unmarshal see it
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)

	v.SetDefault("sim.timestep", d.Sim.Timestep)
	v.SetDefault("sim.max_substeps", d.Sim.MaxSubSteps)
	v.SetDefault("sim.max_speed", d.Sim.MaxSpeed)
	v.SetDefault("sim.speed_damping", d.Sim.SpeedDamping)
	v.SetDefault("sim.gravity", d.Sim.Gravity)

	v.SetDefault("vehicle.mass", d.Vehicle.Mass)
	v.SetDefault("vehicle.angular_damping", d.Vehicle.AngularDamping)
	v.SetDefault("vehicle.half_extents", d.Vehicle.HalfExtents)
	v.SetDefault("vehicle.center_offset", d.Vehicle.CenterOffset)
	v.SetDefault("vehicle.spawn", d.Vehicle.Spawn)
	v.SetDefault("vehicle.color", d.Vehicle.Color)
	v.SetDefault("vehicle.model_path", d.Vehicle.ModelPath)
	v.SetDefault("vehicle.model_scale", d.Vehicle.ModelScale)

	v.SetDefault("reset.in_place", d.Reset.InPlace)
	v.SetDefault("reset.spawn", d.Reset.Spawn)
	v.SetDefault("reset.yaw", d.Reset.Yaw)
	v.SetDefault("reset.height", d.Reset.Height)

	v.SetDefault("wheel.radius", d.Wheel.Radius)
	v.SetDefault("wheel.suspension_stiffness", d.Wheel.SuspensionStiffness)
	v.SetDefault("wheel.suspension_rest_length", d.Wheel.SuspensionRestLength)
	v.SetDefault("wheel.max_suspension_travel", d.Wheel.MaxSuspensionTravel)
	v.SetDefault("wheel.max_suspension_force", d.Wheel.MaxSuspensionForce)
	v.SetDefault("wheel.friction_slip", d.Wheel.FrictionSlip)
	v.SetDefault("wheel.damping_compression", d.Wheel.DampingCompression)
	v.SetDefault("wheel.damping_relaxation", d.Wheel.DampingRelaxation)
	v.SetDefault("wheel.roll_influence", d.Wheel.RollInfluence)
	v.SetDefault("wheel.custom_sliding_speed", d.Wheel.CustomSlidingSpeed)
	v.SetDefault("wheel.use_custom_sliding", d.Wheel.UseCustomSliding)

	v.SetDefault("input.max_force", d.Input.MaxForce)
	v.SetDefault("input.max_steer", d.Input.MaxSteer)
	v.SetDefault("input.max_brake", d.Input.MaxBrake)
	v.SetDefault("input.idle_drag", d.Input.IdleDrag)
	v.SetDefault("input.hold", d.Input.Hold)
	v.SetDefault("input.initial_hold", d.Input.InitialHold)
	v.SetDefault("input.bindings", d.Input.Bindings)

	v.SetDefault("camera.preset", d.Camera.Preset)
	v.SetDefault("camera.follow_rate", d.Camera.FollowRate)
	v.SetDefault("camera.look_rate", d.Camera.LookRate)
	v.SetDefault("camera.look_ahead", d.Camera.LookAhead)
	v.SetDefault("camera.offset", d.Camera.Offset)

	v.SetDefault("audio.enabled", d.Audio.Enabled)
	v.SetDefault("audio.engine_volume", d.Audio.EngineVolume)
	v.SetDefault("audio.brake_volume", d.Audio.BrakeVolume)
	v.SetDefault("audio.engine_path", d.Audio.EnginePath)
	v.SetDefault("audio.brake_path", d.Audio.BrakePath)

	v.SetDefault("scene.blocks", d.Scene.Blocks)
	v.SetDefault("scene.ball", d.Scene.Ball)
	v.SetDefault("scene.sign.text", d.Scene.Sign.Text)
	v.SetDefault("scene.sign.position", d.Scene.Sign.Position)
	v.SetDefault("scene.names", d.Scene.Names)
	v.SetDefault("scene.static_objects", d.Scene.StaticObjects)
	v.SetDefault("scene.triggers", d.Scene.Triggers)

	v.SetDefault("telemetry.enabled", d.Telemetry.Enabled)
	v.SetDefault("telemetry.addr", d.Telemetry.Addr)
	v.SetDefault("telemetry.every", d.Telemetry.Every)
}

// Load reads configuration from path, or from ./drive.toml when path is empty
// A missing default file is not an error; a missing explicit path is
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
