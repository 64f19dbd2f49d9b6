package orders

import "fmt"

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var statuses = map[Status]bool{
	StatusPending:    true,
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCancelled:  true,
}

// ParseStatus accepts any member of the enumeration. Transitions are
// deliberately unrestricted: an admin may set any status at any time.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !statuses[st] {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}
