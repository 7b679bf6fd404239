package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{name: "hours and minutes", input: "09:30", want: TimeOfDay{Hour: 9, Minute: 30}},
		{name: "with seconds", input: "17:00:15", want: TimeOfDay{Hour: 17, Second: 15}},
		{name: "surrounding space", input: " 08:05 ", want: TimeOfDay{Hour: 8, Minute: 5}},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "single digit", input: "9:00", wantErr: true},
		{name: "garbage", input: "noon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMalformedTimesFallBackPerField(t *testing.T) {
	settings := DefaultSettings()
	settings.WorkStartTime = "late morning"
	settings.WorkEndTime = "16:30"

	assert.Equal(t, MustTimeOfDay(DefaultWorkStart), settings.WorkStartOrDefault())
	assert.Equal(t, TimeOfDay{Hour: 16, Minute: 30}, settings.WorkEndOrDefault())
	assert.Equal(t, "late morning", settings.WorkStartTime)
}

func TestIntervalFor(t *testing.T) {
	settings := DefaultSettings()
	settings.BreakInterval = 10 * time.Minute
	settings.HydrationInterval = 0

	assert.Equal(t, 10*time.Minute, settings.IntervalFor(KindBreak))
	assert.Equal(t, 120*time.Minute, settings.IntervalFor(KindHydration))
	assert.Equal(t, EyeStrainInterval, settings.IntervalFor(KindEyeStrain))
	assert.Equal(t, PostureInterval, settings.IntervalFor(KindPosture))
	assert.Equal(t, MoodCheckinInterval, settings.IntervalFor(KindMoodCheckin))
	assert.Zero(t, settings.IntervalFor(KindDailySummary))
}

func TestApplyPatch(t *testing.T) {
	patch, err := ParsePatch([]string{
		"break_interval=10",
		"work_days_only=false",
		"daily_summary_time=16:45",
	})
	require.NoError(t, err)

	updated := DefaultSettings().Apply(patch)
	assert.Equal(t, 10*time.Minute, updated.BreakInterval)
	assert.False(t, updated.WorkDaysOnly)
	assert.Equal(t, "16:45", updated.DailySummaryTime)
	assert.Equal(t, 120*time.Minute, updated.HydrationInterval)
	assert.True(t, updated.NotificationsEnabled)
}

func TestParsePatchRejectsBadInput(t *testing.T) {
	for _, pair := range []string{"break_interval=0", "work_start_time=9am", "volume=11", "notifications_enabled"} {
		_, err := ParsePatch([]string{pair})
		assert.Error(t, err, pair)
	}
}

func TestReminderKinds(t *testing.T) {
	kinds := ScheduledKinds()
	assert.Len(t, kinds, 7)
	assert.NotContains(t, kinds, KindFocusComplete)

	kind, err := ParseReminderKind("eye_strain")
	require.NoError(t, err)
	assert.Equal(t, KindEyeStrain, kind)

	_, err = ParseReminderKind("stretch")
	assert.Error(t, err)
}
