package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ISO 639-2/B codes Matroska files commonly carry, mapped to their /T forms.
var bibliographic = map[string]string{
	"alb": "sqi",
	"arm": "hye",
	"baq": "eus",
	"bur": "mya",
	"chi": "zho",
	"cze": "ces",
	"dut": "nld",
	"fre": "fra",
	"geo": "kat",
	"ger": "deu",
	"gre": "ell",
	"ice": "isl",
	"mac": "mkd",
	"mao": "mri",
	"may": "msa",
	"per": "fas",
	"rum": "ron",
	"slo": "slk",
	"tib": "bod",
	"wel": "cym",
}

// Parse resolves a track language code ("ger", "de", "pt-BR") to a BCP 47 tag.
// Undetermined and unparsable codes report false.
func Parse(code string) (language.Tag, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	switch code {
	case "", "und", "mul", "zxx", "mis":
		return language.Und, false
	}
	if mapped, ok := bibliographic[code]; ok {
		code = mapped
	}
	tag, err := language.Parse(code)
	if err != nil || tag == language.Und {
		return language.Und, false
	}
	return tag, true
}

// DisplayName returns an English name for code. Empty input yields "Unknown"
// and unrecognized input the uppercased code.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	tag, ok := Parse(trimmed)
	if !ok {
		return strings.ToUpper(trimmed)
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(trimmed)
}

// ToISO3 returns the ISO 639-2/T code for code, or "und".
func ToISO3(code string) string {
	tag, ok := Parse(code)
	if !ok {
		return "und"
	}
	base, _ := tag.Base()
	if iso3 := base.ISO3(); iso3 != "" {
		return iso3
	}
	return "und"
}

// Equivalent reports whether two codes name the same base language, e.g.
// "fre", "fra", and "fr-CA".
func Equivalent(a, b string) bool {
	ta, ok := Parse(a)
	if !ok {
		return false
	}
	tb, ok := Parse(b)
	if !ok {
		return false
	}
	ba, _ := ta.Base()
	bb, _ := tb.Base()
	return ba == bb
}

// Suggest returns the first candidate equivalent to requested but spelled
// differently, or "".
func Suggest(requested string, candidates []string) string {
	for _, candidate := range candidates {
		if candidate == requested {
			continue
		}
		if Equivalent(requested, candidate) {
			return candidate
		}
	}
	return ""
}
