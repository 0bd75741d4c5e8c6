package calendar

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a calendar definition from a YAML file.
func Load(path string) (*Calendar, error) {
	if path == "" {
		return nil, fmt.Errorf("calendar path is empty")
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied calendar file
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML calendar definition, normalizes defaults, and
// validates the result.
func Parse(data []byte) (*Calendar, error) {
	var cal Calendar
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("failed to parse calendar definition: %w", err)
	}
	cal.Normalize()
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	return &cal, nil
}

// Normalize fills missing or zero values with safe defaults so partially
// specified definitions still behave. Monthless calendars get a single
// synthetic month spanning the year so month arithmetic stays defined.
func (c *Calendar) Normalize() {
	if c.Name == "" {
		c.Name = "unnamed"
	}
	if c.Monthless && len(c.Months) == 0 {
		c.Months = []Month{{Name: "Year", Days: defaultDaysInYear}}
	}
	if c.Monthless && len(c.Months) > 1 {
		c.Months = c.Months[:1]
	}
	for i := range c.Months {
		if c.Months[i].Type == "" {
			c.Months[i].Type = MonthStandard
		}
	}
	if c.DaysInWeek <= 0 {
		c.DaysInWeek = len(c.Weekdays)
	}
	if c.DaysInWeek <= 0 {
		c.DaysInWeek = defaultDaysInWeek
	}
	if c.Leap.Rule == "" {
		c.Leap.Rule = LeapNone
	}
	for i := range c.Moons {
		m := &c.Moons[i]
		// A phase table is usually written to cover [0,1); pin the last
		// phase's end so float drift cannot leave a gap. An end below its
		// own start is left alone so Validate rejects it.
		if n := len(m.Phases); n > 0 {
			last := &m.Phases[n-1]
			if last.End < 1 && (last.End == 0 || last.End > last.Start) {
				last.End = 1
			}
		}
	}
}

// Validate rejects definitions the engine cannot evaluate safely.
func (c *Calendar) Validate() error {
	if len(c.Months) == 0 {
		return fmt.Errorf("calendar %q has no months", c.Name)
	}
	for i, m := range c.Months {
		if m.Days <= 0 {
			return fmt.Errorf("month %q (index %d) must have a positive length, got %d", m.Name, i, m.Days)
		}
		if m.LeapDays < 0 {
			return fmt.Errorf("month %q (index %d) has negative leap length", m.Name, i)
		}
		switch m.Type {
		case MonthStandard, MonthIntercalary:
		default:
			return fmt.Errorf("month %q (index %d) has unknown type %q", m.Name, i, m.Type)
		}
	}
	if c.Leap.Rule == LeapSimple && c.Leap.Interval <= 0 {
		return fmt.Errorf("simple leap rule requires a positive interval")
	}
	for i, m := range c.Moons {
		if m.CycleLength <= 0 {
			return fmt.Errorf("moon %q (index %d) must have a positive cycle length", m.Name, i)
		}
		for j, p := range m.Phases {
			if p.Start < 0 || p.Start >= 1 || p.End <= p.Start || p.End > 1 {
				return fmt.Errorf("moon %q phase %d has invalid window [%v,%v)", m.Name, j, p.Start, p.End)
			}
		}
	}
	for i, cy := range c.Cycles {
		if cy.Length <= 0 {
			return fmt.Errorf("cycle %q (index %d) must have a positive length", cy.Name, i)
		}
		switch cy.BasedOn {
		case CycleByYear, CycleByEraYear, CycleByMonth, CycleByMonthDay, CycleByYearDay, CycleByDay:
		default:
			return fmt.Errorf("cycle %q (index %d) has unknown basis %q", cy.Name, i, cy.BasedOn)
		}
	}
	return nil
}
