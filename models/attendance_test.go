package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttendancePercentage(t *testing.T) {
	tests := []struct {
		name    string
		working int
		present int
		want    float64
	}{
		{"full attendance", 22, 22, 100},
		{"partial", 22, 20, 90.91},
		{"rounds to 2dp", 23, 17, 73.91},
		{"none present", 22, 0, 0},
		{"zero working days", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := MonthlyAttendance{TotalWorkingDays: tt.working, PresentDays: tt.present}
			assert.Equal(t, tt.want, a.AttendancePercentage())
		})
	}
}
