package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // valid UUIDv7
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B", // valid UUIDv7 (uppercase)
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // not v7
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"00:00", "09:00", "23:59", "12:30"}
	invalid := []string{"24:00", "9:00", "09:60", "0900", "09:00:00", ""}
	for _, s := range valid {
		if !IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = true, want false", s)
		}
	}
}

func TestIsValidTimezone(t *testing.T) {
	assert.True(t, IsValidTimezone("UTC"))
	assert.True(t, IsValidTimezone("Asia/Kolkata"))
	assert.False(t, IsValidTimezone(""))
	assert.False(t, IsValidTimezone("Mars/Olympus_Mons"))
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "phone", Message: "required"},
	}
	got := errs.Error()
	want := "email: invalid; phone: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "phone", Message: "required"},
	}
	got := errs.ToMap()
	assert.Equal(t, map[string]string{"email": "invalid", "phone": "required"}, got)
}

func TestValidationErrors_Err(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())

	errs.Add("name", "name is required")
	err := errs.Err()
	require.Error(t, err)
	assert.Equal(t, "name: name is required", err.Error())
}

type sampleRequest struct {
	Name      string   `json:"name" validate:"required,max=10"`
	Email     string   `json:"email" validate:"required,email"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Kind      string   `json:"kind" validate:"oneof=A B"`
	StartTime string   `json:"start_time" validate:"clock"`
	Internal  string   `json:"-"`
}

func TestStruct_Valid(t *testing.T) {
	lat := 23.4
	req := sampleRequest{Name: "ok", Email: "a@b.cd", Latitude: &lat, Kind: "A", StartTime: "09:00"}
	assert.NoError(t, Struct(&req))
}

func TestStruct_UsesJSONFieldNames(t *testing.T) {
	lat := 123.0
	req := sampleRequest{Name: "this name is too long", Email: "nope", Latitude: &lat, Kind: "C", StartTime: "9am"}

	err := Struct(&req)
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	m := errs.ToMap()
	assert.Equal(t, "name must not exceed 10", m["name"])
	assert.Equal(t, "email must be a valid email address", m["email"])
	assert.Equal(t, "latitude must be between -90 and 90", m["latitude"])
	assert.Equal(t, "kind must be one of: A, B", m["kind"])
	assert.Equal(t, "start_time must be in HH:MM format", m["start_time"])
}

func TestStruct_MissingRequiredPointer(t *testing.T) {
	req := sampleRequest{Name: "ok", Email: "a@b.cd", Kind: "B", StartTime: "10:00"}

	err := Struct(&req)
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, map[string]string{"latitude": "latitude is required"}, errs.ToMap())
}
