package lsp

import (
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = defaultConfig()
)

// _lspconfig is a "hidden" struct, just use `lspConfig`.
// Every field is an empirically tuned gameplay constant, not physical law,
// so all of them can be overridden from conf.toml.
type _lspconfig struct {
	SOIScale            float64 // fraction of the true Laplace radius
	MaxStep             float64 // max gravity substep in seconds
	Restitution         float64 // normal bounce coefficient on surface contact
	Friction            float64 // tangential damping coefficient
	TorqueScale         float64 // contact torque down-scale
	AngularDamping      float64 // per-tick angular velocity decay
	AngularNoise        float64 // angular velocity snap-to-zero floor
	RestingSpeed        float64 // m/s below which a landed vehicle may rest
	RestingAngular      float64 // rad/s below which a landed vehicle may rest
	TippingSpeed        float64 // m/s below which the tipping check runs
	ContactBand         float64 // m, thickness of the surface contact band
	CrashSpeed          float64 // m/s above which debris impact is a crash
	OrbitRecomputeEvery int     // ticks between orbit cache refreshes
}

func defaultConfig() _lspconfig {
	return _lspconfig{
		SOIScale:            0.75,
		MaxStep:             1.0 / 60,
		Restitution:         0.3,
		Friction:            0.8,
		TorqueScale:         2e-5,
		AngularDamping:      0.90,
		AngularNoise:        1e-3,
		RestingSpeed:        3,
		RestingAngular:      0.01,
		TippingSpeed:        20,
		ContactBand:         0.5,
		CrashSpeed:          15,
		OrbitRecomputeEvery: 30,
	}
}

// lspConfig returns the engine tuning configuration. The conf.toml file is
// optional: without LSP_CONFIG the compiled defaults apply unchanged.
func lspConfig() _lspconfig {
	if cfgLoaded {
		return config
	}
	cfgLoaded = true
	confPath := os.Getenv("LSP_CONFIG")
	if confPath == "" {
		return config
	}
	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	if err := viper.ReadInConfig(); err != nil {
		// Unreadable file falls back to defaults, this is tuning, not law.
		return config
	}
	set := func(key string, dst *float64) {
		if viper.IsSet(key) {
			*dst = viper.GetFloat64(key)
		}
	}
	set("soi.scale", &config.SOIScale)
	set("gravity.max_step", &config.MaxStep)
	set("contact.restitution", &config.Restitution)
	set("contact.friction", &config.Friction)
	set("contact.torque_scale", &config.TorqueScale)
	set("contact.angular_damping", &config.AngularDamping)
	set("contact.angular_noise", &config.AngularNoise)
	set("contact.resting_speed", &config.RestingSpeed)
	set("contact.resting_angular", &config.RestingAngular)
	set("contact.tipping_speed", &config.TippingSpeed)
	set("contact.band", &config.ContactBand)
	set("debris.crash_speed", &config.CrashSpeed)
	if viper.IsSet("orbit.recompute_every") {
		config.OrbitRecomputeEvery = viper.GetInt("orbit.recompute_every")
	}
	return config
}

// NewLogger returns the logfmt logger used across the engine.
func NewLogger(subsys string) kitlog.Logger {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	return kitlog.With(klog, "subsys", subsys)
}
