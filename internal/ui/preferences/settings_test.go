package preferences

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workbuddy/internal/core/model"
)

func TestValuesRoundTrip(t *testing.T) {
	settings := model.DefaultSettings()
	settings.SoundEnabled = false
	settings.BreakInterval = 50 * time.Minute

	values := ValuesFrom(settings)
	assert.Equal(t, "50", values.BreakMinutes)
	assert.Equal(t, "09:00", values.WorkStart)

	patch, err := values.Patch()
	require.NoError(t, err)
	assert.Equal(t, settings, model.DefaultSettings().Apply(patch))
}

func TestPatchRejectsBadInput(t *testing.T) {
	cases := map[string]func(*Values){
		"time":       func(values *Values) { values.WorkEnd = "6pm" },
		"minutes":    func(values *Values) { values.HydrationMinutes = "0" },
		"not number": func(values *Values) { values.BreakMinutes = "soon" },
		"reversed":   func(values *Values) { values.WorkStart, values.WorkEnd = "18:00", "09:00" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			values := ValuesFrom(model.DefaultSettings())
			mutate(&values)
			_, err := values.Patch()
			assert.Error(t, err)
		})
	}
}
