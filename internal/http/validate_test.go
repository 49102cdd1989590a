package httpserver

import "testing"

func TestPasswordRule(t *testing.T) {
	type probe struct {
		Password string `validate:"userpassword"`
	}

	cases := []struct {
		password string
		valid    bool
	}{
		{"Valid@Pass1", true},
		{"A!bcdefg", true},
		{"Exactly16Chars!!", true},
		{"short", false},
		{"noupppercase@1", false},
		{"NOSPECIALCHARS1", false},
		{"Way@TooLongPassword123", false},
		{"", false},
	}

	for _, tc := range cases {
		err := validate.Struct(probe{Password: tc.password})
		if (err == nil) != tc.valid {
			t.Errorf("password %q: valid = %v, want %v", tc.password, err == nil, tc.valid)
		}
	}
}

func TestValidationDetails(t *testing.T) {
	req := registerRequest{
		Name:     "Too Short",
		Email:    "not-an-email",
		Password: "weak",
	}
	err := validate.Struct(req)
	if err == nil {
		t.Fatalf("expected validation failure")
	}

	details := validationDetails(err)
	for _, field := range []string{"Name", "Email", "Password"} {
		if _, ok := details[field]; !ok {
			t.Errorf("details missing %s: %v", field, details)
		}
	}
}
