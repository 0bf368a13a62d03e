package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/profile-cli/internal/model"
)

func TestPhone_E164(t *testing.T) {
	assert.Equal(t, "+14085551234", Phone("(408) 555-1234", "US"))
	assert.Equal(t, "+14085551234", Phone("+1 408 555 1234", "US"))
	assert.Equal(t, "+442079460123", Phone("+44 20 7946 0123", "US"))
}

func TestPhone_Idempotent(t *testing.T) {
	inputs := []string{"408-555-1234", "+1 (555) 000-1111", "+442079460123"}
	for _, in := range inputs {
		once := Phone(in, "US")
		if once == "" {
			continue
		}
		assert.Equal(t, once, Phone(once, "US"), "input %q", in)
	}
}

func TestPhone_Invalid(t *testing.T) {
	assert.Empty(t, Phone("", "US"))
	assert.Empty(t, Phone("not a phone", "US"))
	assert.Empty(t, Phone("123", "US"))
}

func TestPhone_PlausibleButNotValid(t *testing.T) {
	// 000 is not a real exchange, but tel: targets are normalized directly.
	assert.Equal(t, "+15550001111", Phone("+1-555-000-1111", "US"))
	assert.Empty(t, StrictPhone("+1-555-000-1111", "US"))
}

func TestStrictPhone_Valid(t *testing.T) {
	assert.Equal(t, "+14085551234", StrictPhone("(408) 555-1234", "US"))
	assert.Empty(t, StrictPhone("not a phone", "US"))
}

func TestPhone_DefaultRegion(t *testing.T) {
	assert.Equal(t, "+14085551234", Phone("408-555-1234", ""))
}

func TestSocial_Canonicalizes(t *testing.T) {
	assert.Equal(t, "https://facebook.com/acme",
		Social("http://www.Facebook.com/acme/?utm_source=footer", model.PlatformFacebook))
	assert.Equal(t, "https://twitter.com/acme",
		Social("https://twitter.com/acme", model.PlatformTwitter))
	assert.Equal(t, "https://x.com/acme",
		Social("https://x.com/acme", model.PlatformTwitter))
	assert.Equal(t, "https://linkedin.com/company/acme",
		Social("linkedin.com/company/acme#about", model.PlatformLinkedIn))
	assert.Equal(t, "https://instagram.com/acme",
		Social("https://www.instagram.com/acme/", model.PlatformInstagram))
}

func TestSocial_RejectsWrongHost(t *testing.T) {
	assert.Empty(t, Social("https://example.com/acme", model.PlatformFacebook))
	assert.Empty(t, Social("https://facebook.com/acme", model.PlatformTwitter))
	assert.Empty(t, Social("https://notfacebook.com/acme", model.PlatformFacebook))
}

func TestSocial_RejectsBareHost(t *testing.T) {
	assert.Empty(t, Social("https://facebook.com", model.PlatformFacebook))
	assert.Empty(t, Social("https://facebook.com/", model.PlatformFacebook))
}

func TestDomain(t *testing.T) {
	cases := map[string]string{
		"https://www.Example.com/contact?x=1": "example.com",
		"http://example.com:8080/":            "example.com",
		"example.com":                         "example.com",
		"www.example.com":                     "example.com",
		"https//example.com/about":            "example.com",
		"  HTTPS://EXAMPLE.COM  ":             "example.com",
		"":                                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Domain(in), "input %q", in)
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "acorn law p.c.", Fold("  Acorn   Law\tP.C. "))
	assert.Equal(t, "", Fold(""))
}
