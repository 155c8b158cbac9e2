package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) *time.Time {
	t := time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
	return &t
}

func intPtr(v int) *int {
	return &v
}

func TestClassify_NineOClockShift(t *testing.T) {
	shift := &ShiftWindow{StartTime: "09:00", GracePeriodMinutes: intPtr(15)}

	cases := []struct {
		name   string
		inTime *time.Time
		want   PunctualityResult
	}{
		{"08:50 is early", at(8, 50), PunctualityResult{Punctuality: PunctualityEarly}},
		{"09:00 exactly is early", at(9, 0), PunctualityResult{Punctuality: PunctualityEarly}},
		{"09:10 is on time", at(9, 10), PunctualityResult{Punctuality: PunctualityOnTime}},
		{"09:15 is the end of grace", at(9, 15), PunctualityResult{Punctuality: PunctualityOnTime}},
		{"09:20 is five minutes late", at(9, 20), PunctualityResult{Punctuality: PunctualityLate, LateByMinutes: 5, IsLate: true}},
		{"10:00 is 45 minutes late", at(10, 0), PunctualityResult{Punctuality: PunctualityLate, LateByMinutes: 45, IsLate: true}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Classify(c.inTime, shift))
		})
	}
}

func TestClassify_Unknown(t *testing.T) {
	unknown := PunctualityResult{Punctuality: PunctualityUnknown}

	assert.Equal(t, unknown, Classify(at(9, 20), nil))
	assert.Equal(t, unknown, Classify(nil, &ShiftWindow{StartTime: "09:00"}))
	assert.Equal(t, unknown, Classify(at(9, 20), &ShiftWindow{StartTime: ""}))
	assert.Equal(t, unknown, Classify(at(9, 20), &ShiftWindow{StartTime: "nine"}))
	assert.Equal(t, unknown, Classify(at(9, 20), &ShiftWindow{StartTime: "25:00"}))
}

func TestClassify_GraceDefaults(t *testing.T) {
	// Unset and zero grace both fall back to 15 minutes.
	for _, grace := range []*int{nil, intPtr(0), intPtr(-5)} {
		shift := &ShiftWindow{StartTime: "09:00", GracePeriodMinutes: grace}
		assert.Equal(t, PunctualityOnTime, Classify(at(9, 14), shift).Punctuality)

		got := Classify(at(9, 20), shift)
		assert.Equal(t, PunctualityLate, got.Punctuality)
		assert.Equal(t, 5, got.LateByMinutes)
	}
}

func TestClassify_CustomGrace(t *testing.T) {
	shift := &ShiftWindow{StartTime: "08:30", GracePeriodMinutes: intPtr(5)}

	got := Classify(at(8, 47), shift)
	assert.Equal(t, PunctualityLate, got.Punctuality)
	assert.Equal(t, 12, got.LateByMinutes)
	assert.True(t, got.IsLate)
}

func TestClassify_PartialMinutesAreTruncated(t *testing.T) {
	shift := &ShiftWindow{StartTime: "09:00", GracePeriodMinutes: intPtr(15)}
	in := time.Date(2025, 3, 10, 9, 20, 59, 0, time.UTC)

	got := Classify(&in, shift)
	assert.Equal(t, 5, got.LateByMinutes)
}

func TestClassify_UsesInTimeLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// 03:50 UTC is 09:20 in Kolkata.
	in := time.Date(2025, 3, 10, 3, 50, 0, 0, time.UTC).In(kolkata)
	shift := &ShiftWindow{StartTime: "09:00"}

	got := Classify(&in, shift)
	assert.Equal(t, PunctualityLate, got.Punctuality)
	assert.Equal(t, 5, got.LateByMinutes)
}

func TestClassify_AcceptsSeconds(t *testing.T) {
	shift := &ShiftWindow{StartTime: "09:00:00"}
	assert.Equal(t, PunctualityOnTime, Classify(at(9, 10), shift).Punctuality)
}
