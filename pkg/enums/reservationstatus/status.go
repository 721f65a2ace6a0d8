package reservationstatus

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
	Created   Status
	Confirmed Status
	CheckedIn Status
	Cancelled Status
}

var Statuses = Enum{
	Created:   Status{Name: "created"},
	Confirmed: Status{Name: "confirmed"},
	CheckedIn: Status{Name: "checked-in"},
	Cancelled: Status{Name: "cancelled"},
}

var All = []Status{
	Statuses.Created,
	Statuses.Confirmed,
	Statuses.CheckedIn,
	Statuses.Cancelled,
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

// IsTerminal reports whether no further lifecycle transition is allowed.
func IsTerminal(name string) bool {
	return name == Statuses.CheckedIn.Name || name == Statuses.Cancelled.Name
}
