package config

// YAMLPolicy is the on-disk shape of a rotation policy. Every field is
// optional; omitted values fall back to the defaults.
type YAMLPolicy struct {
	Roster           []string `yaml:"roster"`
	HorizonWeeks     *int     `yaml:"horizon_weeks"`
	WeeksBeforeToday *int     `yaml:"weeks_before_today"`
	Coverage         *int     `yaml:"coverage"`
	MaxShifts        *int     `yaml:"max_shifts"`
	RollingWindow    *int     `yaml:"rolling_window"`
	RollingCap       *int     `yaml:"rolling_cap"`
	TimeBudget       string   `yaml:"time_budget"`
	LogLevel         string   `yaml:"log_level"`
}
