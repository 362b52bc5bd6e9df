package timeslot

import (
	"testing"

	"barbershop/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "9", want: 9 * 60},
		{in: "10", want: 10 * 60},
		{in: "930", want: 9*60 + 30},
		{in: "1030", want: 10*60 + 30},
		{in: "2130", want: 21*60 + 30},
		{in: "", wantErr: true},
		{in: "10:30", wantErr: true},
		{in: "1075", wantErr: true},
		{in: "2530", wantErr: true},
		{in: "12345", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDay_CodeRoundTrip(t *testing.T) {
	for _, code := range []string{"9", "930", "10", "1030", "13", "1330", "22"} {
		tod, err := ParseTimeOfDay(code)
		require.NoError(t, err)
		assert.Equal(t, code, tod.Code())
	}
}

func TestRange_Next(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{code: "10-1030", want: "1030-11"},
		{code: "1030-11", want: "11-1130"},
		{code: "9-930", want: "930-10"},
		{code: "930-10", want: "10-1030"},
		{code: "1230-13", want: "13-1330"},
		{code: "2130-22", want: "22-2230"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			r, err := ParseRange(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Next().Code())
		})
	}
}

func TestParseRange_Invalid(t *testing.T) {
	for _, code := range []string{"", "10", "11-10", "a-b", "10-"} {
		_, err := ParseRange(code)
		assert.Error(t, err, code)
	}
}

func TestSecondSlot(t *testing.T) {
	tests := []struct {
		name        string
		slot        entity.TimeSlot
		needsDouble bool
		want        string
		wantOK      bool
	}{
		{name: "single booking has no second slot", slot: entity.TimeSlot{Time: "10-1030"}, needsDouble: false},
		{name: "regular slot", slot: entity.TimeSlot{Time: "10-1030"}, needsDouble: true, want: "1030-11", wantOK: true},
		{name: "before rest never pairs", slot: entity.TimeSlot{Time: "1230-13", IsBeforeRest: true}, needsDouble: true},
		{name: "end of noon shift", slot: entity.TimeSlot{Time: "13-1330", IsEndOfShift: true}, needsDouble: true, want: "1330-14", wantOK: true},
		{name: "end of night shift", slot: entity.TimeSlot{Time: "21-2130", IsEndOfShift: true}, needsDouble: true, want: "2130-22", wantOK: true},
		{name: "end of shift without stand-in", slot: entity.TimeSlot{Time: "17-1730", IsEndOfShift: true}, needsDouble: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SecondSlot(tt.slot, tt.needsDouble)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "ساعت 10:30", Describe(entity.TimeSlot{Time: "1030-11"}, false))
	assert.Equal(t, "ساعت 10:30 و 11:00", Describe(entity.TimeSlot{Time: "1030-11"}, true))
	assert.Equal(t, "ساعت 13:00 و 13:30", Describe(entity.TimeSlot{Time: "13-1330", IsEndOfShift: true}, true))
	assert.Equal(t, "ساعت 12:30", Describe(entity.TimeSlot{Time: "1230-13", IsBeforeRest: true}, true))
}
