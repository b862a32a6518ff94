package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("STINGRAY_TEST_URL", "https://jf.example.com")
	t.Setenv("STINGRAY_TEST_EMPTY", "")
	t.Setenv("STINGRAY_TEST_TOKEN", "abc")

	tests := []struct {
		name    string
		in      string
		want    string
		missing []string
	}{
		{"plain", `url = "${STINGRAY_TEST_URL}"`, `url = "https://jf.example.com"`, nil},
		{"set but empty", `x = "${STINGRAY_TEST_EMPTY}"`, `x = ""`, nil},
		{"unset", `x = "${STINGRAY_TEST_NEVER_SET_1}"`, `x = "${STINGRAY_TEST_NEVER_SET_1}"`, []string{"STINGRAY_TEST_NEVER_SET_1"}},
		{"default used when empty", `x = "${STINGRAY_TEST_EMPTY:-fallback}"`, `x = "fallback"`, nil},
		{"default ignored when set", `x = "${STINGRAY_TEST_TOKEN:-fallback}"`, `x = "abc"`, nil},
		{"required present", `x = "${STINGRAY_TEST_TOKEN:?token needed}"`, `x = "abc"`, nil},
		{
			"required missing",
			`x = "${STINGRAY_TEST_EMPTY:?token needed}"`,
			`x = "${STINGRAY_TEST_EMPTY:?token needed}"`,
			[]string{"STINGRAY_TEST_EMPTY: token needed"},
		},
		{
			"several",
			"${STINGRAY_TEST_TOKEN} ${STINGRAY_TEST_NEVER_SET_2} ${STINGRAY_TEST_EMPTY:-three}",
			"abc ${STINGRAY_TEST_NEVER_SET_2} three",
			[]string{"STINGRAY_TEST_NEVER_SET_2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, missing := substituteEnvVars(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.missing, missing)
		})
	}
}
