package delegation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatus_CanTransition(t *testing.T) {
	cases := []struct {
		from TaskStatus
		to   TaskStatus
		want bool
	}{
		{StatusOpen, StatusInProgress, true},
		{StatusOpen, StatusDone, true},
		{StatusOpen, StatusCancelled, true},
		{StatusInProgress, StatusDone, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusOpen, false},
		{StatusDone, StatusInProgress, false},
		{StatusDone, StatusOpen, false},
		{StatusCancelled, StatusInProgress, false},
		{StatusCancelled, StatusDone, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}
