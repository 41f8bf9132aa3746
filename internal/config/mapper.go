package config

import (
	"fmt"
	"strings"
	"time"
)

// MapPolicy applies dto over the defaults and validates the result.
func MapPolicy(dto YAMLPolicy) (Policy, error) {
	p := Default()

	if len(dto.Roster) > 0 {
		p.Roster = make([]string, 0, len(dto.Roster))
		for _, name := range dto.Roster {
			p.Roster = append(p.Roster, strings.TrimSpace(name))
		}
	}
	setInt(&p.HorizonWeeks, dto.HorizonWeeks)
	setInt(&p.WeeksBeforeToday, dto.WeeksBeforeToday)
	setInt(&p.Scheduler.Coverage, dto.Coverage)
	setInt(&p.Scheduler.MaxShifts, dto.MaxShifts)
	setInt(&p.Scheduler.RollingWindow, dto.RollingWindow)
	setInt(&p.Scheduler.RollingCap, dto.RollingCap)

	if dto.TimeBudget != "" {
		d, err := time.ParseDuration(dto.TimeBudget)
		if err != nil {
			return Policy{}, fmt.Errorf("invalid time_budget %q: %w", dto.TimeBudget, err)
		}
		p.Scheduler.TimeBudget = d
	}

	if level := strings.TrimSpace(dto.LogLevel); level != "" {
		p.LogLevel = strings.ToLower(level)
	}

	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
