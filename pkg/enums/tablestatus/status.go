package tablestatus

import (
	"strings"
)

type Status struct {
	Name string
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	parts := strings.Split(s.Name, "-")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, " ")
}

type Enum struct {
	Open   Status
	Closed Status
	Locked Status
	Booked Status
}

var Statuses = Enum{
	Open:   Status{Name: "open"},
	Closed: Status{Name: "closed"},
	Locked: Status{Name: "locked"},
	Booked: Status{Name: "booked"},
}

var All = []Status{
	Statuses.Open,
	Statuses.Closed,
	Statuses.Locked,
	Statuses.Booked,
}

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}
